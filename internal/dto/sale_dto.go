package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID        string          `json:"product_id"          validate:"required,uuid"`
	Quantity         int             `json:"quantity"            validate:"required,min=1"`
	SoldPricePerUnit decimal.Decimal `json:"sold_price_per_unit" validate:"min=0"`
	// Coefficient defaults to 1 when omitted (no tax / cash adjustment).
	Coefficient decimal.Decimal `json:"coefficient"`
}

type CreateSaleRequest struct {
	ClientName string            `json:"client_name" validate:"required,min=1,max=200"`
	Items      []SaleItemRequest `json:"items"       validate:"required,min=1,dive"`
}

type UpdateSaleStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
}

// SaleFilter is bound from the query string of GET /api/sales.
type SaleFilter struct {
	Status string `form:"status" validate:"omitempty,oneof=UNPAID PARTIAL PAID"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	ProductSKU       *string         `json:"product_sku"`
	Quantity         int             `json:"quantity"`
	SoldPricePerUnit decimal.Decimal `json:"sold_price_per_unit"`
	Coefficient      decimal.Decimal `json:"coefficient"`
	// FinalSellPrice = sold_price_per_unit × coefficient.
	FinalSellPrice decimal.Decimal `json:"final_sell_price"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	ClientName    string             `json:"client_name"`
	TotalSale     decimal.Decimal    `json:"total_sale"`
	TotalCost     decimal.Decimal    `json:"total_cost"`
	Margin        decimal.Decimal    `json:"margin"`
	PaymentStatus string             `json:"payment_status"`
	Items         []SaleItemResponse `json:"items"`
	CreatedAt     string             `json:"created_at"`
}
