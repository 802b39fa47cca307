package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RozhkovN/inventory-api/internal/dto"
	"github.com/RozhkovN/inventory-api/internal/model"
	"github.com/RozhkovN/inventory-api/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	searchCacheTTL = 5 * time.Minute
	searchGenKey   = "products:search:gen"
)

// ProductService is the catalog side of the inventory core. Every mutation
// that changes quantity, price, or coefficient writes a matching ledger entry
// in the same transaction — catalog and ledger never diverge.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Search(ctx context.Context, query string) ([]dto.ProductResponse, error)
	All(ctx context.Context) ([]dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo   repository.ProductRepository
	opRepo repository.StockOperationRepository
	rdb    *redis.Client // nil in unit tests — cache is skipped
}

func NewProductService(repo repository.ProductRepository, opRepo repository.StockOperationRepository, rdb *redis.Client) ProductService {
	return &productService{repo: repo, opRepo: opRepo, rdb: rdb}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	coeff := req.Coefficient
	if coeff.IsZero() {
		coeff = decimal.NewFromInt(1)
	}
	if !coeff.IsPositive() {
		return nil, ErrCoefficientNotPositive
	}

	product := model.Product{
		Name:          strings.TrimSpace(req.Name),
		SKU:           req.SKU,
		PurchasePrice: req.PurchasePrice,
		Coefficient:   coeff,
		Quantity:      req.Quantity,
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, &product); err != nil {
			return err
		}
		op := &model.StockOperation{
			ProductID:        product.ID,
			Type:             model.OpIncoming,
			QuantityChange:   req.Quantity,
			OldQuantity:      intPtr(0),
			NewQuantity:      intPtr(req.Quantity),
			OldPurchasePrice: decPtr(decimal.Zero),
			NewPurchasePrice: decPtr(req.PurchasePrice),
			OldCoefficient:   decPtr(decimal.NewFromInt(1)),
			NewCoefficient:   decPtr(coeff),
			Reason:           "Manual intake",
		}
		return s.opRepo.CreateTx(tx, op)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSearchCache(ctx)
	return productToResponse(&product), nil
}

func (s *productService) Search(ctx context.Context, query string) ([]dto.ProductResponse, error) {
	cacheKey := s.searchCacheKey(ctx, query)
	if cacheKey != "" {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp []dto.ProductResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return resp, nil
			}
		}
	}

	products, err := s.repo.Search(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, *productToResponse(&products[i]))
	}

	if cacheKey != "" {
		if encoded, err := json.Marshal(resp); err == nil {
			s.rdb.Set(ctx, cacheKey, encoded, searchCacheTTL)
		}
	}
	return resp, nil
}

func (s *productService) All(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, *productToResponse(&products[i]))
	}
	return resp, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var product *model.Product
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.LockByID(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		oldQty := p.Quantity
		oldPrice := p.PurchasePrice
		oldCoeff := p.Coefficient

		if req.Name != nil {
			p.Name = strings.TrimSpace(*req.Name)
		}
		if req.SKU != nil {
			p.SKU = req.SKU
		}
		if req.PurchasePrice != nil {
			p.PurchasePrice = *req.PurchasePrice
		}
		if req.Coefficient != nil {
			p.Coefficient = *req.Coefficient
		}
		if req.Quantity != nil {
			p.Quantity = *req.Quantity
		}

		if !p.Coefficient.IsPositive() {
			return ErrCoefficientNotPositive
		}
		if p.Quantity < 0 {
			return ErrNegativeQuantity
		}
		if p.PurchasePrice.IsNegative() {
			return ErrNegativePrice
		}

		if err := s.repo.SaveTx(tx, p); err != nil {
			return err
		}

		op := &model.StockOperation{
			ProductID:        p.ID,
			Type:             model.OpAdjustment,
			QuantityChange:   p.Quantity - oldQty,
			OldQuantity:      intPtr(oldQty),
			NewQuantity:      intPtr(p.Quantity),
			OldPurchasePrice: decPtr(oldPrice),
			NewPurchasePrice: decPtr(p.PurchasePrice),
			OldCoefficient:   decPtr(oldCoeff),
			NewCoefficient:   decPtr(p.Coefficient),
			Reason:           "Manual adjustment",
		}
		if err := s.opRepo.CreateTx(tx, op); err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSearchCache(ctx)
	return productToResponse(product), nil
}

// Delete removes a product together with its entire operation history.
// Products with remaining stock are protected: zero the quantity first.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.LockByID(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if p.Quantity > 0 {
			return ErrProductHasStock
		}
		if err := s.opRepo.DeleteByProductTx(tx, id); err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, id)
	})
	if err != nil {
		return err
	}

	s.invalidateSearchCache(ctx)
	return nil
}

// ── Cache helpers ────────────────────────────────────────────────────────────

// searchCacheKey embeds a generation counter so that any catalog mutation
// invalidates every cached query at once (one INCR instead of key scans).
func (s *productService) searchCacheKey(ctx context.Context, query string) string {
	if s.rdb == nil {
		return ""
	}
	gen, err := s.rdb.Get(ctx, searchGenKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			return "" // cache unreachable — serve from the database
		}
		gen = "0"
	}
	return fmt.Sprintf("products:search:%s:%s", gen, strings.ToLower(strings.TrimSpace(query)))
}

func (s *productService) invalidateSearchCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Incr(ctx, searchGenKey).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to bump product search cache generation")
	}
}

// ── Mapping helpers ──────────────────────────────────────────────────────────

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		SKU:           p.SKU,
		PurchasePrice: p.PurchasePrice,
		Coefficient:   p.Coefficient,
		Quantity:      p.Quantity,
		FinalPrice:    p.FinalPrice(),
	}
}

func intPtr(v int) *int                         { return &v }
func decPtr(v decimal.Decimal) *decimal.Decimal { return &v }
