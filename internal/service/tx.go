package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return translateTxError(fn(nil))
	}
	return translateTxError(db.WithContext(ctx).Transaction(fn))
}

// Postgres codes meaning the transaction lost a concurrency race:
// serialization_failure, deadlock_detected, lock_not_available.
var pgConflictCodes = map[string]bool{
	"40001": true,
	"40P01": true,
	"55P03": true,
}

// translateTxError surfaces concurrency races as ErrConflict so handlers can
// answer 409 and let the client retry from scratch.
func translateTxError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgConflictCodes[pgErr.Code] {
		return fmt.Errorf("%w: %s", ErrConflict, pgErr.Message)
	}
	return err
}
