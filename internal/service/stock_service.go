package service

import (
	"context"
	"time"

	"github.com/RozhkovN/inventory-api/internal/dto"
	"github.com/RozhkovN/inventory-api/internal/model"
	"github.com/RozhkovN/inventory-api/internal/repository"

	"github.com/google/uuid"
)

// RemovedProductLabel is the sentinel name substituted for ledger rows and
// sale items whose product has since been deleted.
const RemovedProductLabel = "REMOVED"

// StockService is the read side of the stock ledger.
type StockService interface {
	History(ctx context.Context, filter dto.StockHistoryFilter) ([]dto.StockOperationResponse, error)
}

type stockService struct {
	opRepo      repository.StockOperationRepository
	productRepo repository.ProductRepository
}

func NewStockService(opRepo repository.StockOperationRepository, productRepo repository.ProductRepository) StockService {
	return &stockService{opRepo: opRepo, productRepo: productRepo}
}

// History returns ledger entries newest first, each annotated with the
// referenced product's current name. Dangling references resolve to the
// RemovedProductLabel sentinel — never to an error.
func (s *stockService) History(ctx context.Context, filter dto.StockHistoryFilter) ([]dto.StockOperationResponse, error) {
	repoFilter := repository.StockOperationFilter{
		Type: model.OperationType(filter.OperationType),
	}
	if filter.ProductID != "" {
		pid, err := uuid.Parse(filter.ProductID)
		if err != nil {
			return nil, ErrProductNotFound
		}
		repoFilter.ProductID = &pid
	}
	if filter.Days > 0 {
		repoFilter.Since = time.Now().UTC().AddDate(0, 0, -filter.Days)
	}

	ops, err := s.opRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	names, err := s.resolveNames(ctx, ops)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.StockOperationResponse, 0, len(ops))
	for i := range ops {
		op := &ops[i]
		name, ok := names[op.ProductID]
		if !ok {
			name = RemovedProductLabel
		}
		resp = append(resp, dto.StockOperationResponse{
			ID:               op.ID.String(),
			ProductID:        op.ProductID.String(),
			ProductName:      name,
			OperationType:    string(op.Type),
			QuantityChange:   op.QuantityChange,
			OldQuantity:      op.OldQuantity,
			NewQuantity:      op.NewQuantity,
			OldPurchasePrice: op.OldPurchasePrice,
			NewPurchasePrice: op.NewPurchasePrice,
			OldCoefficient:   op.OldCoefficient,
			NewCoefficient:   op.NewCoefficient,
			SoldPricePerUnit: op.SoldPricePerUnit,
			Reason:           op.Reason,
			Timestamp:        op.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}

func (s *stockService) resolveNames(ctx context.Context, ops []model.StockOperation) (map[uuid.UUID]string, error) {
	seen := make(map[uuid.UUID]struct{}, len(ops))
	ids := make([]uuid.UUID, 0, len(ops))
	for i := range ops {
		if _, ok := seen[ops[i].ProductID]; ok {
			continue
		}
		seen[ops[i].ProductID] = struct{}{}
		ids = append(ids, ops[i].ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(products))
	for id, p := range products {
		names[id] = p.Name
	}
	return names, nil
}
