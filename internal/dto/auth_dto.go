package dto

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	BranchID string `json:"branch_id"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	User         UserResponse `json:"user"`
}

type CreateUserRequest struct {
	Username string `json:"username"  validate:"required,min=3"`
	Name     string `json:"name"      validate:"required"`
	Password string `json:"password"  validate:"required,min=8"`
	Role     string `json:"role"      validate:"required,oneof=cashier manager admin"`
	BranchID string `json:"branch_id" validate:"required,uuid"`
	Email    *string `json:"email"    validate:"omitempty,email"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Role  *string `json:"role"  validate:"omitempty,oneof=cashier manager admin"`
	Email *string `json:"email" validate:"omitempty,email"`
}
