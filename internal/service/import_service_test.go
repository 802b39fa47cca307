package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// warehouseRow mirrors one line of the bookkeeping template: name, quantity,
// price cell (formula or literal), SKU.
type warehouseRow struct {
	name    string
	qty     interface{}
	price   interface{} // string starting with "=" becomes a formula
	formula string      // real formula, set via SetCellFormula
	sku     string
}

func buildWorkbook(t *testing.T, rows []warehouseRow) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(WarehouseSheet)
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue(WarehouseSheet, "B1", "Наименование"))
	require.NoError(t, f.SetCellValue(WarehouseSheet, "C1", "Кол-во"))
	require.NoError(t, f.SetCellValue(WarehouseSheet, "D1", "Цена"))
	require.NoError(t, f.SetCellValue(WarehouseSheet, "E1", "Артикул"))

	for i, row := range rows {
		n := i + 2
		require.NoError(t, f.SetCellValue(WarehouseSheet, fmt.Sprintf("B%d", n), row.name))
		if row.qty != nil {
			require.NoError(t, f.SetCellValue(WarehouseSheet, fmt.Sprintf("C%d", n), row.qty))
		}
		if row.formula != "" {
			require.NoError(t, f.SetCellFormula(WarehouseSheet, fmt.Sprintf("D%d", n), row.formula))
		} else if row.price != nil {
			require.NoError(t, f.SetCellValue(WarehouseSheet, fmt.Sprintf("D%d", n), row.price))
		}
		if row.sku != "" {
			require.NoError(t, f.SetCellValue(WarehouseSheet, fmt.Sprintf("E%d", n), row.sku))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestImportWarehouse_CreatesProductsFromFormulaCells(t *testing.T) {
	products := newStubProductRepo()
	ops := newStubOpRepo()
	svc := NewImportService(products, ops)

	data := buildWorkbook(t, []warehouseRow{
		{name: "Steel pipe 20mm", qty: 10, formula: "100*1.2", sku: "SP-20"},
		{name: "Copper wire", qty: 5, price: "40.50"},
	})

	result, err := svc.ImportWarehouse(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ProductsCreated)
	assert.Equal(t, 0, result.RowsSkipped)

	pipe, err := products.FindByNameAndSKUTx(nil, "Steel pipe 20mm", strPtr("SP-20"))
	require.NoError(t, err)
	assert.True(t, pipe.PurchasePrice.Equal(dec("100")), "price: %s", pipe.PurchasePrice)
	assert.True(t, pipe.Coefficient.Equal(dec("1.2")), "coefficient: %s", pipe.Coefficient)
	assert.Equal(t, 10, pipe.Quantity)

	wire, err := products.FindByNameAndSKUTx(nil, "Copper wire", nil)
	require.NoError(t, err)
	assert.True(t, wire.PurchasePrice.Equal(dec("40.50")))
	assert.True(t, wire.Coefficient.Equal(dec("1")), "literal price implies coefficient 1")

	// every created product gets an intake ledger entry
	assert.Len(t, ops.byProduct(pipe.ID), 1)
	assert.Len(t, ops.byProduct(wire.ID), 1)
}

func TestImportWarehouse_IncrementsExistingByNaturalKey(t *testing.T) {
	products := newStubProductRepo()
	ops := newStubOpRepo()
	svc := NewImportService(products, ops)

	pid := seedProduct(products, "Steel pipe 20mm", strPtr("SP-20"), "100.00", "1.2", 7)

	data := buildWorkbook(t, []warehouseRow{
		{name: "Steel pipe 20mm", qty: 3, formula: "999*9", sku: "SP-20"},
	})

	result, err := svc.ImportWarehouse(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ProductsCreated)

	p := products.products[pid]
	assert.Equal(t, 10, p.Quantity)
	assert.True(t, p.PurchasePrice.Equal(dec("100.00")), "import never overwrites an existing price")
	assert.True(t, p.Coefficient.Equal(dec("1.2")))

	entries := ops.byProduct(pid)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].QuantityChange)
	assert.Equal(t, 7, *entries[0].OldQuantity)
	assert.Equal(t, 10, *entries[0].NewQuantity)
}

func TestImportWarehouse_SkipsMalformedRows(t *testing.T) {
	products := newStubProductRepo()
	svc := NewImportService(products, newStubOpRepo())

	data := buildWorkbook(t, []warehouseRow{
		{name: "Good", qty: 2, price: "10.00"},
		{name: "Bad quantity", qty: "many", price: "10.00"},
		{name: "", qty: 5, price: "10.00"}, // blank name — padding, not counted
		{name: "Also good", qty: 1, price: "5.00"},
	})

	result, err := svc.ImportWarehouse(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ProductsCreated)
	assert.Equal(t, 1, result.RowsSkipped)
}

func TestImportWarehouse_SkipsNegativeQuantities(t *testing.T) {
	products := newStubProductRepo()
	ops := newStubOpRepo()
	svc := NewImportService(products, ops)

	pid := seedProduct(products, "Steel pipe 20mm", strPtr("SP-20"), "100.00", "1.2", 5)

	data := buildWorkbook(t, []warehouseRow{
		{name: "Steel pipe 20mm", qty: -10, price: "100.00", sku: "SP-20"},
		{name: "Phantom stock", qty: -3, price: "10.00"},
	})

	result, err := svc.ImportWarehouse(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ProductsCreated)
	assert.Equal(t, 2, result.RowsSkipped)

	// stock can never go negative through an import
	assert.Equal(t, 5, products.products[pid].Quantity)
	assert.Empty(t, ops.byProduct(pid))

	_, err = products.FindByNameAndSKUTx(nil, "Phantom stock", nil)
	assert.Error(t, err, "a negative row must not create a product")
}

func TestImportWarehouse_NegativePriceFallsBackToZero(t *testing.T) {
	products := newStubProductRepo()
	svc := NewImportService(products, newStubOpRepo())

	data := buildWorkbook(t, []warehouseRow{
		{name: "Refund line", qty: 1, price: "-5"},
	})

	result, err := svc.ImportWarehouse(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ProductsCreated)

	p, err := products.FindByNameAndSKUTx(nil, "Refund line", nil)
	require.NoError(t, err)
	assert.True(t, p.PurchasePrice.IsZero(), "a negative literal is treated as unparsable")
	assert.True(t, p.Coefficient.Equal(dec("1")))
}

func TestImportWarehouse_CommaDecimalsInTextFormula(t *testing.T) {
	products := newStubProductRepo()
	svc := NewImportService(products, newStubOpRepo())

	data := buildWorkbook(t, []warehouseRow{
		{name: "Gasket", qty: 4, price: "=12,50*1,13"},
	})

	_, err := svc.ImportWarehouse(context.Background(), data)
	require.NoError(t, err)

	p, err := products.FindByNameAndSKUTx(nil, "Gasket", nil)
	require.NoError(t, err)
	assert.True(t, p.PurchasePrice.Equal(dec("12.50")), "price: %s", p.PurchasePrice)
	assert.True(t, p.Coefficient.Equal(dec("1.13")), "coefficient: %s", p.Coefficient)
}

func TestImportWarehouse_UnparsablePriceFallsBackToZero(t *testing.T) {
	products := newStubProductRepo()
	svc := NewImportService(products, newStubOpRepo())

	data := buildWorkbook(t, []warehouseRow{
		{name: "Mystery", qty: 1, price: "call for price"},
	})

	result, err := svc.ImportWarehouse(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ProductsCreated, "unparsable price is not a row error")

	p, err := products.FindByNameAndSKUTx(nil, "Mystery", nil)
	require.NoError(t, err)
	assert.True(t, p.PurchasePrice.IsZero())
	assert.True(t, p.Coefficient.Equal(dec("1")))
}

func TestImportWarehouse_MissingSheet(t *testing.T) {
	svc := NewImportService(newStubProductRepo(), newStubOpRepo())

	f := excelize.NewFile()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = svc.ImportWarehouse(context.Background(), buf.Bytes())
	assert.ErrorIs(t, err, ErrMissingSheet)
}

func TestImportWarehouse_UnreadableFile(t *testing.T) {
	svc := NewImportService(newStubProductRepo(), newStubOpRepo())

	_, err := svc.ImportWarehouse(context.Background(), []byte("this is not a workbook"))
	assert.ErrorIs(t, err, ErrUnreadableFile)
}
