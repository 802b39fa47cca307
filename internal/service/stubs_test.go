package service

import (
	"context"
	"strings"
	"time"

	"github.com/RozhkovN/inventory-api/internal/model"
	"github.com/RozhkovN/inventory-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory ProductRepository stub ─────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) LockByID(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindByNameAndSKUTx(_ *gorm.DB, name string, sku *string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Name != name {
			continue
		}
		switch {
		case sku == nil && p.SKU == nil:
		case sku != nil && p.SKU != nil && *sku == *p.SKU:
		default:
			continue
		}
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) Search(_ context.Context, query string) ([]model.Product, error) {
	var result []model.Product
	q := strings.ToLower(query)
	for _, p := range r.products {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProductRepo) All(_ context.Context) ([]model.Product, error) {
	result := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		result = append(result, *p)
	}
	return result, nil
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Product, error) {
	result := make(map[uuid.UUID]model.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			result[id] = *p
		}
	}
	return result, nil
}

func (r *stubProductRepo) SaveTx(_ *gorm.DB, p *model.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) AdjustQuantityTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Quantity += delta
	return nil
}

func (r *stubProductRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

// ── In-memory StockOperationRepository stub ──────────────────────────────────

type stubOpRepo struct {
	ops []model.StockOperation
}

var _ repository.StockOperationRepository = (*stubOpRepo)(nil)

func newStubOpRepo() *stubOpRepo { return &stubOpRepo{} }

func (r *stubOpRepo) CreateTx(_ *gorm.DB, op *model.StockOperation) error {
	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}
	if op.CreatedAt.IsZero() {
		op.CreatedAt = time.Now()
	}
	r.ops = append(r.ops, *op)
	return nil
}

func (r *stubOpRepo) List(_ context.Context, filter repository.StockOperationFilter) ([]model.StockOperation, error) {
	var result []model.StockOperation
	// newest first, matching the SQL ordering
	for i := len(r.ops) - 1; i >= 0; i-- {
		op := r.ops[i]
		if filter.ProductID != nil && op.ProductID != *filter.ProductID {
			continue
		}
		if filter.Type != "" && op.Type != filter.Type {
			continue
		}
		if !filter.Since.IsZero() && op.CreatedAt.Before(filter.Since) {
			continue
		}
		result = append(result, op)
	}
	return result, nil
}

func (r *stubOpRepo) DeleteByProductTx(_ *gorm.DB, productID uuid.UUID) error {
	kept := r.ops[:0]
	for _, op := range r.ops {
		if op.ProductID != productID {
			kept = append(kept, op)
		}
	}
	r.ops = kept
	return nil
}

// byProduct returns the ledger entries for one product, oldest first.
func (r *stubOpRepo) byProduct(id uuid.UUID) []model.StockOperation {
	var result []model.StockOperation
	for _, op := range r.ops {
		if op.ProductID == id {
			result = append(result, op)
		}
	}
	return result
}

// ── In-memory SaleRepository stub ────────────────────────────────────────────

type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	cp := *s
	cp.Items = append([]model.SaleItem(nil), s.Items...)
	r.sales[s.ID] = &cp
	return nil
}

func (r *stubSaleRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubSaleRepo) List(_ context.Context, status string) ([]model.Sale, error) {
	var result []model.Sale
	for _, s := range r.sales {
		if status != "" && s.PaymentStatus != status {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (r *stubSaleRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	s, ok := r.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.PaymentStatus = status
	return nil
}

func (r *stubSaleRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.sales, id)
	return nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func seedProduct(r *stubProductRepo, name string, sku *string, price string, coeff string, qty int) uuid.UUID {
	p := &model.Product{
		ID:            uuid.New(),
		Name:          name,
		SKU:           sku,
		PurchasePrice: dec(price),
		Coefficient:   dec(coeff),
		Quantity:      qty,
	}
	r.products[p.ID] = p
	return p.ID
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }
