package repository

import (
	"context"

	"tillpoint/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryLogFilter defines filters for listing stock movements.
type InventoryLogFilter struct {
	ProductID  *uuid.UUID
	VariantID  *uuid.UUID
	ChangeType string
	Page       int
	Limit      int
}

type InventoryLogRepository interface {
	CreateTx(tx *gorm.DB, l *model.InventoryLog) error
	List(ctx context.Context, filter InventoryLogFilter) ([]model.InventoryLog, int64, error)
}

type inventoryLogRepo struct{ db *gorm.DB }

func NewInventoryLogRepository(db *gorm.DB) InventoryLogRepository {
	return &inventoryLogRepo{db: db}
}

func (r *inventoryLogRepo) CreateTx(tx *gorm.DB, l *model.InventoryLog) error {
	return tx.Create(l).Error
}

func (r *inventoryLogRepo) List(ctx context.Context, filter InventoryLogFilter) ([]model.InventoryLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.InventoryLog{}).Preload("Product")
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.VariantID != nil {
		q = q.Where("variant_id = ?", *filter.VariantID)
	}
	if filter.ChangeType != "" {
		q = q.Where("change_type = ?", filter.ChangeType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var logs []model.InventoryLog
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&logs).Error
	return logs, total, err
}
