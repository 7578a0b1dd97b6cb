package repository

import (
	"context"

	"tillpoint/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BranchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Branch, error)
	// FindByIDForUpdate row-locks the branch so the cashback capital check and
	// write cannot interleave with a concurrent debit.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Branch, error)
	SetCapitalTx(tx *gorm.DB, id uuid.UUID, balance decimal.Decimal) error
	ListActive(ctx context.Context) ([]model.Branch, error)
	DB() *gorm.DB
}

type branchRepo struct{ db *gorm.DB }

func NewBranchRepository(db *gorm.DB) BranchRepository { return &branchRepo{db: db} }

func (r *branchRepo) DB() *gorm.DB { return r.db }

func (r *branchRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Branch, error) {
	var b model.Branch
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	return &b, err
}

func (r *branchRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Branch, error) {
	db := tx
	if db == nil {
		db = r.db
	} else {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var b model.Branch
	err := db.First(&b, "id = ?", id).Error
	return &b, err
}

func (r *branchRepo) ListActive(ctx context.Context) ([]model.Branch, error) {
	var branches []model.Branch
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&branches).Error
	return branches, err
}

func (r *branchRepo) SetCapitalTx(tx *gorm.DB, id uuid.UUID, balance decimal.Decimal) error {
	return tx.Model(&model.Branch{}).Where("id = ?", id).
		Update("cashback_capital", balance).Error
}
