package repository

import (
	"context"
	"time"

	"github.com/RozhkovN/inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockOperationFilter defines filters for listing ledger entries.
type StockOperationFilter struct {
	ProductID *uuid.UUID
	Type      model.OperationType
	// Since drops entries older than the given instant; zero means no cutoff.
	Since time.Time
}

// StockOperationRepository is the append-only writer and read side of the
// stock ledger. There is no update method on purpose; DeleteByProductTx
// exists only for the destructive cascade when a product is removed.
type StockOperationRepository interface {
	CreateTx(tx *gorm.DB, op *model.StockOperation) error
	List(ctx context.Context, filter StockOperationFilter) ([]model.StockOperation, error)
	DeleteByProductTx(tx *gorm.DB, productID uuid.UUID) error
}

type stockOperationRepo struct{ db *gorm.DB }

func NewStockOperationRepository(db *gorm.DB) StockOperationRepository {
	return &stockOperationRepo{db: db}
}

func (r *stockOperationRepo) CreateTx(tx *gorm.DB, op *model.StockOperation) error {
	return tx.Create(op).Error
}

func (r *stockOperationRepo) List(ctx context.Context, filter StockOperationFilter) ([]model.StockOperation, error) {
	q := r.db.WithContext(ctx).Model(&model.StockOperation{})
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}

	var ops []model.StockOperation
	err := q.Order("created_at DESC").Find(&ops).Error
	return ops, err
}

func (r *stockOperationRepo) DeleteByProductTx(tx *gorm.DB, productID uuid.UUID) error {
	return tx.Where("product_id = ?", productID).Delete(&model.StockOperation{}).Error
}
