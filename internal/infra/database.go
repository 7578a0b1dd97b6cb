package infra

import (
	"fmt"

	"tillpoint/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (the receipt number sequence, partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies the schema. Also used by integration tests against a
// throwaway container database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Branch{},
		&model.User{},
		&model.Product{},
		&model.ProductVariant{},
		&model.Session{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Payment{},
		&model.InventoryLog{},
		&model.Expense{},
		&model.AuditLog{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement is IF NOT EXISTS-guarded so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Gap-free-enough receipt numbering: allocated inside the checkout
		// transaction via nextval(), never reused across restarts.
		{"create receipt number sequence",
			`CREATE SEQUENCE IF NOT EXISTS sales_receipt_number_seq START 1`},

		// Partial index for the open-credit-sale lookups (settlement, write-off,
		// receivables listing).
		{"index open credit sales", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_sales_open_credit') THEN
    CREATE INDEX idx_sales_open_credit
        ON sales (branch_id, created_at)
        WHERE is_credit_sale AND credit_status = 'open';
  END IF;
END $$`},

		// Partial index backing the one-open-session-per-cashier lookup.
		{"index open sessions", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_sessions_open') THEN
    CREATE UNIQUE INDEX idx_sessions_open
        ON sessions (branch_id, opened_by_id)
        WHERE status = 'open';
  END IF;
END $$`},

		// Cash reconciliation sums payments by their own timestamp, scoped to a
		// branch via the sale join.
		{"index payments by created_at", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_payments_created_at') THEN
    CREATE INDEX idx_payments_created_at ON payments (created_at);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("schema patch %q: %w", p.descr, err)
		}
	}
	return nil
}
