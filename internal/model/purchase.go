package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase is an immutable record of a completed checkout.
// There is no edit or void flow: a purchase is written exactly once, inside
// the checkout transaction, together with its items and payments.
// PaymentMethod: "cash" | "card" | "upi" | "split"
type Purchase struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceNumber string    `gorm:"uniqueIndex;not null"`
	CustomerName  string    `gorm:"not null;default:'Walk-in Customer'"`
	CustomerPhone *string
	CustomerEmail *string
	Notes         *string
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// DiscountType: "percentage" | "amount"; nil when no discount applied.
	DiscountType   *string          `gorm:"type:varchar(20)"`
	DiscountValue  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DiscountAmount decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	TaxAmount      decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount    decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	PaymentMethod  string           `gorm:"type:varchar(20);not null"`
	IsSplitPayment bool             `gorm:"not null;default:false"`
	CreatedAt      time.Time        `gorm:"index"`

	Items    []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
	Payments []Payment      `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
}

// PurchaseItem freezes one cart line at sale time. UnitPrice and TotalPrice
// are captured values, never recomputed from the current StockItem price.
type PurchaseItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	StockItemID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	StockItem *StockItem `gorm:"foreignKey:StockItemID"`
}

// Payment is one instrument+amount pair of a split payment. Non-split
// purchases have zero Payment rows; the method lives on the Purchase.
// Method: "cash" | "card" | "upi"
type Payment struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Method     string          `gorm:"type:varchar(20);not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status     string          `gorm:"type:varchar(20);not null;default:'completed'"`
	CreatedAt  time.Time
}

func (Purchase) TableName() string     { return "purchases" }
func (PurchaseItem) TableName() string { return "purchase_items" }
func (Payment) TableName() string      { return "payments" }
