package repository

import (
	"context"

	"tillpoint/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Session, error)
	// FindByIDForUpdate locks the session row for the close read-modify-write.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Session, error)
	// FindOpen returns the OPEN session for a (branch, user) pair, if any.
	FindOpen(ctx context.Context, branchID, userID uuid.UUID) (*model.Session, error)
	UpdateTx(tx *gorm.DB, s *model.Session) error
	DB() *gorm.DB
}

type sessionRepo struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &sessionRepo{db: db} }

func (r *sessionRepo) DB() *gorm.DB { return r.db }

func (r *sessionRepo) Create(ctx context.Context, s *model.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *sessionRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Session, error) {
	db := tx
	if db == nil {
		db = r.db
	} else {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var s model.Session
	err := db.First(&s, "id = ?", id).Error
	return &s, err
}

func (r *sessionRepo) FindOpen(ctx context.Context, branchID, userID uuid.UUID) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND opened_by_id = ? AND status = ?", branchID, userID, model.SessionStatusOpen).
		First(&s).Error
	return &s, err
}

func (r *sessionRepo) UpdateTx(tx *gorm.DB, s *model.Session) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.Save(s).Error
}
