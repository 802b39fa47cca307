package repository

import (
	"context"

	"github.com/RozhkovN/inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines the data access contract for the product catalog.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
//
// Tx-suffixed methods run inside a caller-owned transaction; unit tests pass
// a nil tx, which the stubs ignore.
type ProductRepository interface {
	CreateTx(tx *gorm.DB, p *model.Product) error
	// LockByID loads the row FOR UPDATE so that the caller's
	// read-check-decrement sequence serializes with any concurrent
	// transaction touching the same product.
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	// FindByNameAndSKUTx matches on the natural key, locking the row FOR
	// UPDATE when found; a nil sku matches only rows with no SKU.
	FindByNameAndSKUTx(tx *gorm.DB, name string, sku *string) (*model.Product, error)
	Search(ctx context.Context, query string) ([]model.Product, error)
	All(ctx context.Context) ([]model.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Product, error)
	SaveTx(tx *gorm.DB, p *model.Product) error
	AdjustQuantityTx(tx *gorm.DB, id uuid.UUID, delta int) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Create(p).Error
}

func (r *productRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) FindByNameAndSKUTx(tx *gorm.DB, name string, sku *string) (*model.Product, error) {
	var p model.Product
	q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("name = ?", name)
	if sku == nil {
		q = q.Where("sku IS NULL")
	} else {
		q = q.Where("sku = ?", *sku)
	}
	err := q.First(&p).Error
	return &p, err
}

func (r *productRepo) Search(ctx context.Context, query string) ([]model.Product, error) {
	var products []model.Product
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if query != "" {
		q = q.Where("name ILIKE ?", "%"+query+"%")
	}
	err := q.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) All(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Product, error) {
	result := make(map[uuid.UUID]model.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var products []model.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		result[p.ID] = p
	}
	return result, nil
}

func (r *productRepo) SaveTx(tx *gorm.DB, p *model.Product) error {
	return tx.Save(p).Error
}

func (r *productRepo) AdjustQuantityTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

func (r *productRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Product{}, "id = ?", id).Error
}
