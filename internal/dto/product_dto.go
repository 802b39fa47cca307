package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name          string          `json:"name"           validate:"required,min=1,max=200"`
	SKU           *string         `json:"sku"            validate:"omitempty,max=100"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"min=0"`
	// Coefficient defaults to 1 when omitted; the service rejects values ≤ 0.
	Coefficient decimal.Decimal `json:"coefficient"`
	Quantity    int             `json:"quantity"       validate:"min=0"`
}

// UpdateProductRequest carries a partial update: nil means "leave untouched".
type UpdateProductRequest struct {
	Name          *string          `json:"name"           validate:"omitempty,min=1,max=200"`
	SKU           *string          `json:"sku"            validate:"omitempty,max=100"`
	PurchasePrice *decimal.Decimal `json:"purchase_price" validate:"omitempty,min=0"`
	Coefficient   *decimal.Decimal `json:"coefficient"`
	Quantity      *int             `json:"quantity"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	SKU           *string         `json:"sku"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Coefficient   decimal.Decimal `json:"coefficient"`
	Quantity      int             `json:"quantity"`
	// FinalPrice = purchase_price × coefficient, for warehouse display.
	FinalPrice decimal.Decimal `json:"final_price"`
}
