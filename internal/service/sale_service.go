package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RozhkovN/inventory-api/internal/dto"
	"github.com/RozhkovN/inventory-api/internal/model"
	"github.com/RozhkovN/inventory-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleService composes catalog mutations and ledger entries into atomic
// multi-item sales, and provides the compensating reversal.
type SaleService interface {
	Create(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]dto.SaleResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type saleService struct {
	repo        repository.SaleRepository
	productRepo repository.ProductRepository
	opRepo      repository.StockOperationRepository
}

func NewSaleService(repo repository.SaleRepository, productRepo repository.ProductRepository, opRepo repository.StockOperationRepository) SaleService {
	return &saleService{repo: repo, productRepo: productRepo, opRepo: opRepo}
}

// ── Create ───────────────────────────────────────────────────────────────────
// One ACID transaction per sale:
//  1. Lock each product row (FOR UPDATE) so concurrent sales of the same
//     product serialize on the read-check-decrement sequence.
//  2. Check sufficiency, compute line cost and revenue, decrement stock.
//  3. Freeze the product cost into the sale item and append a SALE ledger
//     entry per line.
//  4. Persist the sale with its items; any failure rolls everything back.

func (s *saleService) Create(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	// productRef captures name/SKU at commit time for the response.
	type productRef struct {
		name string
		sku  *string
	}
	refs := make(map[uuid.UUID]productRef)

	sale := model.Sale{
		ClientName:    req.ClientName,
		PaymentStatus: model.PaymentUnpaid,
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		totalSale := decimal.Zero
		totalCost := decimal.Zero

		for _, item := range req.Items {
			pid, err := uuid.Parse(item.ProductID)
			if err != nil {
				return fmt.Errorf("%w: bad product id %q", ErrProductNotFound, item.ProductID)
			}
			coeff := item.Coefficient
			if coeff.IsZero() {
				coeff = decimal.NewFromInt(1)
			}
			if !coeff.IsPositive() {
				return ErrCoefficientNotPositive
			}

			p, err := s.productRepo.LockByID(tx, pid)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID)
				}
				return err
			}
			if p.Quantity < item.Quantity {
				return &InsufficientStockError{
					ProductName: p.Name,
					Available:   p.Quantity,
					Requested:   item.Quantity,
				}
			}

			qty := decimal.NewFromInt(int64(item.Quantity))
			lineCost := p.PurchasePrice.Mul(qty)
			lineRevenue := item.SoldPricePerUnit.Mul(coeff).Mul(qty)
			totalCost = totalCost.Add(lineCost)
			totalSale = totalSale.Add(lineRevenue)

			oldQty := p.Quantity
			newQty := oldQty - item.Quantity
			if err := s.productRepo.AdjustQuantityTx(tx, pid, -item.Quantity); err != nil {
				return err
			}
			p.Quantity = newQty

			sale.Items = append(sale.Items, model.SaleItem{
				ProductID:           pid,
				Quantity:            item.Quantity,
				SoldPricePerUnit:    item.SoldPricePerUnit,
				Coefficient:         coeff,
				PurchasePriceAtSale: p.PurchasePrice,
			})

			op := &model.StockOperation{
				ProductID:        pid,
				Type:             model.OpSale,
				QuantityChange:   -item.Quantity,
				OldQuantity:      intPtr(oldQty),
				NewQuantity:      intPtr(newQty),
				SoldPricePerUnit: decPtr(item.SoldPricePerUnit),
			}
			if err := s.opRepo.CreateTx(tx, op); err != nil {
				return err
			}

			refs[pid] = productRef{name: p.Name, sku: p.SKU}
		}

		sale.TotalSale = totalSale
		sale.TotalCost = totalCost
		sale.Margin = totalSale.Sub(totalCost)
		return s.repo.CreateTx(tx, &sale)
	})
	if err != nil {
		return nil, err
	}

	resp := saleToResponse(&sale, func(pid uuid.UUID) (string, *string) {
		ref, ok := refs[pid]
		if !ok {
			return RemovedProductLabel, nil
		}
		return ref.name, ref.sku
	})
	return resp, nil
}

// ── List ─────────────────────────────────────────────────────────────────────

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) ([]dto.SaleResponse, error) {
	sales, err := s.repo.List(ctx, filter.Status)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindByIDs(ctx, collectProductIDs(sales))
	if err != nil {
		return nil, err
	}
	lookup := func(pid uuid.UUID) (string, *string) {
		p, ok := products[pid]
		if !ok {
			return RemovedProductLabel, nil
		}
		return p.Name, p.SKU
	}

	resp := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		resp = append(resp, *saleToResponse(&sales[i], lookup))
	}
	return resp, nil
}

// ── UpdateStatus ─────────────────────────────────────────────────────────────
// Pure metadata change — no stock effect.

func (s *saleService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !model.ValidPaymentStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.FindByIDTx(tx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSaleNotFound
			}
			return err
		}
		return s.repo.UpdateStatusTx(tx, id, status)
	})
}

// ── Delete ───────────────────────────────────────────────────────────────────
// Compensating reversal: restock every item whose product still exists and
// append a matching ADJUSTMENT ledger entry, then drop the sale and its
// items — all in one transaction. Items whose product was deleted in the
// meantime are silently skipped (nothing left to restock).

func (s *saleService) Delete(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sale, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSaleNotFound
			}
			return err
		}

		for _, item := range sale.Items {
			p, err := s.productRepo.LockByID(tx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue // product gone — best-effort compensation
				}
				return err
			}

			oldQty := p.Quantity
			if err := s.productRepo.AdjustQuantityTx(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			op := &model.StockOperation{
				ProductID:      item.ProductID,
				Type:           model.OpAdjustment,
				QuantityChange: item.Quantity,
				OldQuantity:    intPtr(oldQty),
				NewQuantity:    intPtr(oldQty + item.Quantity),
				Reason:         fmt.Sprintf("Cancelled sale #%s", sale.ID),
			}
			if err := s.opRepo.CreateTx(tx, op); err != nil {
				return err
			}
		}

		return s.repo.DeleteTx(tx, id)
	})
}

// ── Mapping helpers ──────────────────────────────────────────────────────────

func collectProductIDs(sales []model.Sale) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for i := range sales {
		for _, item := range sales[i].Items {
			if _, ok := seen[item.ProductID]; ok {
				continue
			}
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}

func saleToResponse(sale *model.Sale, lookup func(uuid.UUID) (string, *string)) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		name, sku := lookup(item.ProductID)
		items = append(items, dto.SaleItemResponse{
			ProductID:        item.ProductID.String(),
			ProductName:      name,
			ProductSKU:       sku,
			Quantity:         item.Quantity,
			SoldPricePerUnit: item.SoldPricePerUnit,
			Coefficient:      item.Coefficient,
			FinalSellPrice:   item.SoldPricePerUnit.Mul(item.Coefficient),
		})
	}
	return &dto.SaleResponse{
		ID:            sale.ID.String(),
		ClientName:    sale.ClientName,
		TotalSale:     sale.TotalSale,
		TotalCost:     sale.TotalCost,
		Margin:        sale.Margin,
		PaymentStatus: sale.PaymentStatus,
		Items:         items,
		CreatedAt:     sale.CreatedAt.UTC().Format(time.RFC3339),
	}
}
