package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the current catalog state of a stocked item.
// The pair (Name, SKU) is the natural key used for import de-duplication.
type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string          `gorm:"index;not null"`
	SKU           *string         `gorm:"index"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	// Coefficient is the multiplicative adjustment (tax, cash discount, etc.)
	// applied to a base price at sale time. Always strictly positive.
	Coefficient decimal.Decimal `gorm:"type:decimal(10,4);not null;default:1"`
	Quantity    int             `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FinalPrice is the display price with the coefficient applied.
func (p *Product) FinalPrice() decimal.Decimal {
	return p.PurchasePrice.Mul(p.Coefficient)
}
