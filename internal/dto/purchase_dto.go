package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PurchaseLineRequest struct {
	StockID    string          `json:"stockId"    validate:"required,uuid"`
	Quantity   int             `json:"quantity"   validate:"required,min=1"`
	UnitPrice  decimal.Decimal `json:"unitPrice"  validate:"required"`
	TotalPrice decimal.Decimal `json:"totalPrice" validate:"required"`
}

type SplitPaymentRequest struct {
	PaymentMethod string          `json:"paymentMethod" validate:"required,oneof=cash card upi"`
	Amount        decimal.Decimal `json:"amount"        validate:"required"`
}

// CompletePurchaseRequest is the body of POST /api/purchases.
// Monetary fields arrive pre-computed by the cart UI; the service re-checks
// their consistency before opening a transaction.
type CompletePurchaseRequest struct {
	CustomerName   string                `json:"customerName"`
	CustomerPhone  *string               `json:"customerPhone"  validate:"omitempty,max=20"`
	CustomerEmail  *string               `json:"customerEmail"  validate:"omitempty,email"`
	Notes          *string               `json:"notes"`
	Subtotal       decimal.Decimal       `json:"subtotal"       validate:"min=0"`
	DiscountType   *string               `json:"discountType"   validate:"omitempty,oneof=percentage amount"`
	DiscountValue  *decimal.Decimal      `json:"discountValue"`
	DiscountAmount decimal.Decimal       `json:"discountAmount" validate:"min=0"`
	TaxAmount      decimal.Decimal       `json:"taxAmount"      validate:"min=0"`
	TotalAmount    decimal.Decimal       `json:"totalAmount"    validate:"min=0"`
	PaymentMethod  string                `json:"paymentMethod"  validate:"required,oneof=cash card upi split"`
	IsSplitPayment bool                  `json:"isSplitPayment"`
	SplitPayments  []SplitPaymentRequest `json:"splitPayments"  validate:"omitempty,dive"`
	Items          []PurchaseLineRequest `json:"items"          validate:"required,min=1,dive"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

// PurchaseFilter is bound from the query string of GET /api/purchases.
type PurchaseFilter struct {
	Date   string `form:"date"`   // YYYY-MM-DD; empty = all
	Method string `form:"method"` // cash | card | upi | split; empty = all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PurchaseItemResponse struct {
	StockID    string          `json:"stockId"`
	HumanCode  string          `json:"humanCode"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type PaymentResponse struct {
	PaymentMethod string          `json:"paymentMethod"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
}

type PurchaseResponse struct {
	ID             string                 `json:"id"`
	InvoiceNumber  string                 `json:"invoiceNumber"`
	CustomerName   string                 `json:"customerName"`
	CustomerPhone  *string                `json:"customerPhone,omitempty"`
	CustomerEmail  *string                `json:"customerEmail,omitempty"`
	Notes          *string                `json:"notes,omitempty"`
	Subtotal       decimal.Decimal        `json:"subtotal"`
	DiscountType   *string                `json:"discountType,omitempty"`
	DiscountValue  *decimal.Decimal       `json:"discountValue,omitempty"`
	DiscountAmount decimal.Decimal        `json:"discountAmount"`
	TaxAmount      decimal.Decimal        `json:"taxAmount"`
	TotalAmount    decimal.Decimal        `json:"totalAmount"`
	PaymentMethod  string                 `json:"paymentMethod"`
	IsSplitPayment bool                   `json:"isSplitPayment"`
	Items          []PurchaseItemResponse `json:"items"`
	Payments       []PaymentResponse      `json:"payments"`
	CreatedAt      string                 `json:"createdAt"`
}

type PurchaseListResponse struct {
	Data  []PurchaseResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
