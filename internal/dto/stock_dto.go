package dto

import "github.com/shopspring/decimal"

// StockHistoryFilter is bound from the query string of GET /api/stock-history.
type StockHistoryFilter struct {
	ProductID     string `form:"product_id"     validate:"omitempty,uuid"`
	OperationType string `form:"operation_type" validate:"omitempty,oneof=INCOMING SALE ADJUSTMENT"`
	// Days limits history to the last N days; zero means all history.
	Days int `form:"days" validate:"omitempty,min=1"`
}

type StockOperationResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	// ProductName resolves to "REMOVED" when the product no longer exists.
	ProductName      string           `json:"product_name"`
	OperationType    string           `json:"operation_type"`
	QuantityChange   int              `json:"quantity_change"`
	OldQuantity      *int             `json:"old_quantity"`
	NewQuantity      *int             `json:"new_quantity"`
	OldPurchasePrice *decimal.Decimal `json:"old_purchase_price"`
	NewPurchasePrice *decimal.Decimal `json:"new_purchase_price"`
	OldCoefficient   *decimal.Decimal `json:"old_coefficient"`
	NewCoefficient   *decimal.Decimal `json:"new_coefficient"`
	SoldPricePerUnit *decimal.Decimal `json:"sold_price_per_unit"`
	Reason           string           `json:"reason"`
	Timestamp        string           `json:"timestamp"`
}
