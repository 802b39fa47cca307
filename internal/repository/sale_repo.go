package repository

import (
	"context"

	"github.com/RozhkovN/inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	// CreateTx persists the sale and its items in one insert cascade.
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, status string) ([]model.Sale, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	// DeleteTx removes the sale and all of its items.
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *saleRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	if err := tx.First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	err := tx.Where("sale_id = ?", id).Find(&s.Items).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, status string) ([]model.Sale, error) {
	q := r.db.WithContext(ctx).Model(&model.Sale{}).Preload("Items")
	if status != "" {
		q = q.Where("payment_status = ?", status)
	}
	var sales []model.Sale
	err := q.Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Sale{}).Where("id = ?", id).Update("payment_status", status).Error
}

func (r *saleRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("sale_id = ?", id).Delete(&model.SaleItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Sale{}, "id = ?", id).Error
}
