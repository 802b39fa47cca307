package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationType classifies a stock ledger entry.
type OperationType string

const (
	OpIncoming   OperationType = "INCOMING"
	OpSale       OperationType = "SALE"
	OpAdjustment OperationType = "ADJUSTMENT"
)

// ValidOperationType reports whether s is a known operation type.
func ValidOperationType(s string) bool {
	switch OperationType(s) {
	case OpIncoming, OpSale, OpAdjustment:
		return true
	}
	return false
}

// StockOperation is one immutable audit record of a quantity or
// price/coefficient change to a product. Rows are never updated; the only
// delete is the cascade when the owning product is removed.
//
// ProductID is a plain reference, not an ownership pointer: after a product
// delete that intentionally orphans history, the id may dangle and readers
// resolve it to a "REMOVED" label.
type StockOperation struct {
	ID               uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID        uuid.UUID     `gorm:"type:uuid;not null;index"`
	Type             OperationType `gorm:"type:varchar(20);not null"`
	QuantityChange   int           `gorm:"not null"` // positive = intake, negative = outflow
	OldQuantity      *int
	NewQuantity      *int
	OldPurchasePrice *decimal.Decimal `gorm:"type:decimal(15,2)"`
	NewPurchasePrice *decimal.Decimal `gorm:"type:decimal(15,2)"`
	OldCoefficient   *decimal.Decimal `gorm:"type:decimal(10,4)"`
	NewCoefficient   *decimal.Decimal `gorm:"type:decimal(10,4)"`
	// SoldPricePerUnit is only meaningful for SALE entries.
	SoldPricePerUnit *decimal.Decimal `gorm:"type:decimal(15,2)"`
	Reason           string
	CreatedAt        time.Time
}
