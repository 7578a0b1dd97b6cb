package service

import "github.com/google/uuid"

// Actor is the request-scoped identity passed into every core operation.
// It is built from the JWT claims by the handler layer — never from ambient
// or global state — and scopes all access to the actor's branch.
type Actor struct {
	UserID   uuid.UUID
	BranchID uuid.UUID
	Role     string
}

// Roles.
const (
	RoleCashier = "cashier"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)
