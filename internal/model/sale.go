package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentUnpaid  = "UNPAID"
	PaymentPartial = "PARTIAL"
	PaymentPaid    = "PAID"
)

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentUnpaid, PaymentPartial, PaymentPaid:
		return true
	}
	return false
}

// Sale is one committed multi-item sale. Totals and margin are frozen at
// creation and never recomputed from later catalog changes.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClientName    string          `gorm:"not null"`
	TotalSale     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TotalCost     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Margin        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PaymentStatus string          `gorm:"type:varchar(20);not null;default:'UNPAID'"`
	CreatedAt     time.Time

	Items []SaleItem `gorm:"foreignKey:SaleID"`
}

// SaleItem is one line of a sale. PurchasePriceAtSale snapshots the product
// cost at the moment of sale so later price changes never alter a recorded
// margin. ProductID is a plain reference that may dangle after a product
// delete; readers resolve it to a "REMOVED" label.
type SaleItem struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity            int             `gorm:"not null"`
	SoldPricePerUnit    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Coefficient         decimal.Decimal `gorm:"type:decimal(10,4);not null;default:1"`
	PurchasePriceAtSale decimal.Decimal `gorm:"type:decimal(15,2);not null"`
}
