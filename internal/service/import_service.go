package service

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/RozhkovN/inventory-api/internal/dto"
	"github.com/RozhkovN/inventory-api/internal/model"
	"github.com/RozhkovN/inventory-api/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// WarehouseSheet is the workbook sheet the reconciliation engine reads.
// The name is fixed by the upstream bookkeeping template.
const WarehouseSheet = "Склад"

// priceFormulaRe captures the two factors of a "<price> * <coefficient>"
// cell. Decimal separators may be a comma or a period.
var priceFormulaRe = regexp.MustCompile(`^\s*([0-9]+(?:[.,][0-9]+)?)\s*\*\s*([0-9]+(?:[.,][0-9]+)?)\s*$`)

// ImportService reconciles warehouse spreadsheet rows against the catalog:
// known products get their quantity incremented, unknown ones are created.
type ImportService interface {
	ImportWarehouse(ctx context.Context, data []byte) (*dto.ImportResult, error)
}

type importService struct {
	productRepo repository.ProductRepository
	opRepo      repository.StockOperationRepository
}

func NewImportService(productRepo repository.ProductRepository, opRepo repository.StockOperationRepository) ImportService {
	return &importService{productRepo: productRepo, opRepo: opRepo}
}

// importRow is one successfully parsed spreadsheet row.
type importRow struct {
	name        string
	sku         *string
	quantity    int
	price       decimal.Decimal
	coefficient decimal.Decimal
}

// ImportWarehouse parses the workbook and applies all well-formed rows as one
// atomic batch. A row that fails to parse is logged and skipped; it never
// rolls back the rest of the import.
func (s *importService) ImportWarehouse(ctx context.Context, data []byte) (*dto.ImportResult, error) {
	rows, skipped, err := s.parseWorkbook(data)
	if err != nil {
		return nil, err
	}

	created := 0
	err = runTx(ctx, s.productRepo.DB(), func(tx *gorm.DB) error {
		for _, row := range rows {
			existing, err := s.productRepo.FindByNameAndSKUTx(tx, row.name, row.sku)
			switch {
			case err == nil:
				// Known product: increment quantity only. Import never
				// overwrites an existing price or coefficient.
				oldQty := existing.Quantity
				if err := s.productRepo.AdjustQuantityTx(tx, existing.ID, row.quantity); err != nil {
					return err
				}
				op := &model.StockOperation{
					ProductID:      existing.ID,
					Type:           model.OpIncoming,
					QuantityChange: row.quantity,
					OldQuantity:    intPtr(oldQty),
					NewQuantity:    intPtr(oldQty + row.quantity),
					Reason:         "Warehouse import",
				}
				if err := s.opRepo.CreateTx(tx, op); err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				product := model.Product{
					Name:          row.name,
					SKU:           row.sku,
					PurchasePrice: row.price,
					Coefficient:   row.coefficient,
					Quantity:      row.quantity,
				}
				if err := s.productRepo.CreateTx(tx, &product); err != nil {
					return err
				}
				op := &model.StockOperation{
					ProductID:        product.ID,
					Type:             model.OpIncoming,
					QuantityChange:   row.quantity,
					OldQuantity:      intPtr(0),
					NewQuantity:      intPtr(row.quantity),
					OldPurchasePrice: decPtr(decimal.Zero),
					NewPurchasePrice: decPtr(row.price),
					OldCoefficient:   decPtr(decimal.NewFromInt(1)),
					NewCoefficient:   decPtr(row.coefficient),
					Reason:           "Warehouse import",
				}
				if err := s.opRepo.CreateTx(tx, op); err != nil {
					return err
				}
				created++
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.ImportResult{
		Message:         "Warehouse imported",
		ProductsCreated: created,
		RowsSkipped:     skipped,
	}, nil
}

// parseWorkbook extracts import rows from the warehouse sheet. The first row
// is the header; the five fixed columns are index, name, quantity, price, SKU.
func (s *importService) parseWorkbook(data []byte) ([]importRow, int, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, 0, ErrUnreadableFile
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(WarehouseSheet)
	if err != nil || idx < 0 {
		return nil, 0, ErrMissingSheet
	}

	sheetRows, err := f.GetRows(WarehouseSheet)
	if err != nil {
		return nil, 0, ErrUnreadableFile
	}

	var rows []importRow
	skipped := 0
	for i := 1; i < len(sheetRows); i++ {
		row := sheetRows[i]
		name := strings.TrimSpace(cellAt(row, 1))
		qtyText := strings.TrimSpace(cellAt(row, 2))
		if name == "" || qtyText == "" {
			continue // blank padding row, not an error
		}

		qty, err := strconv.Atoi(qtyText)
		if err != nil || qty < 0 {
			log.Warn().Int("row", i+1).Str("quantity", qtyText).
				Msg("import: quantity is not a non-negative integer, row skipped")
			skipped++
			continue
		}

		price, coeff := s.parsePriceCell(f, row, i+1)

		var sku *string
		if v := strings.TrimSpace(cellAt(row, 4)); v != "" {
			sku = &v
		}

		rows = append(rows, importRow{
			name:        name,
			sku:         sku,
			quantity:    qty,
			price:       price,
			coefficient: coeff,
		})
	}
	return rows, skipped, nil
}

// parsePriceCell resolves the price column for the given sheet row (1-based).
// A real "=a*b" formula wins over the cached cell value; a literal value is
// taken with coefficient 1; anything else falls back to (0, 1).
func (s *importService) parsePriceCell(f *excelize.File, row []string, sheetRow int) (decimal.Decimal, decimal.Decimal) {
	cell, err := excelize.CoordinatesToCellName(4, sheetRow)
	if err == nil {
		if formula, ferr := f.GetCellFormula(WarehouseSheet, cell); ferr == nil && formula != "" {
			if price, coeff, ok := parsePriceFormula(formula); ok {
				return price, coeff
			}
		}
	}
	return parsePriceText(cellAt(row, 3))
}

// parsePriceFormula matches the "<number> * <number>" factor pattern. The
// first factor is the purchase price, the second the coefficient.
func parsePriceFormula(formula string) (decimal.Decimal, decimal.Decimal, bool) {
	m := priceFormulaRe.FindStringSubmatch(formula)
	if m == nil {
		return decimal.Zero, decimal.Zero, false
	}
	price, err1 := decimal.NewFromString(normalizeDecimal(m[1]))
	coeff, err2 := decimal.NewFromString(normalizeDecimal(m[2]))
	if err1 != nil || err2 != nil || !coeff.IsPositive() {
		return decimal.Zero, decimal.Zero, false
	}
	return price, coeff, true
}

// parsePriceText handles literal price cells, including text cells that carry
// the formula notation as a plain string (exported sheets often do). A
// negative literal gets the same (0, 1) fallback as unparsable content:
// stored prices are never negative.
func parsePriceText(text string) (decimal.Decimal, decimal.Decimal) {
	one := decimal.NewFromInt(1)
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "=") {
		if price, coeff, ok := parsePriceFormula(strings.TrimPrefix(trimmed, "=")); ok {
			return price, coeff
		}
		return decimal.Zero, one
	}
	if price, err := decimal.NewFromString(normalizeDecimal(trimmed)); err == nil && !price.IsNegative() {
		return price, one
	}
	return decimal.Zero, one
}

func normalizeDecimal(s string) string {
	return strings.ReplaceAll(s, ",", ".")
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return "" // GetRows trims trailing empty cells
	}
	return row[i]
}
