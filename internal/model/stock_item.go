package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItem is one sellable saree/textile unit held in inventory.
// Quantity is mutated in exactly two places: warehouse adjustments and the
// purchase transaction. It must never go negative.
type StockItem struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// HumanCode is the shop-facing code printed on stickers, e.g. "HS-0007".
	HumanCode    string `gorm:"uniqueIndex;not null"`
	Name         string `gorm:"index;not null"`
	Category     string `gorm:"index;not null"`
	Color        *string
	Quantity     int              `gorm:"not null;default:0"`
	MinQuantity  int              `gorm:"not null;default:5"`
	UnitCost     decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	SellingPrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Supplier     *string
	IsActive     bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (StockItem) TableName() string { return "stock_items" }
