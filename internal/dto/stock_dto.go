package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateStockRequest struct {
	Name         string           `json:"name"         validate:"required,min=2,max=120"`
	Category     string           `json:"category"     validate:"required,min=2,max=60"`
	Color        *string          `json:"color"`
	Quantity     int              `json:"quantity"     validate:"min=0"`
	MinQuantity  int              `json:"minQuantity"  validate:"min=0"`
	UnitCost     decimal.Decimal  `json:"unitCost"     validate:"required"`
	SellingPrice *decimal.Decimal `json:"sellingPrice"`
	Supplier     *string          `json:"supplier"`
}

type UpdateStockRequest struct {
	Name         *string          `json:"name"         validate:"omitempty,min=2,max=120"`
	Category     *string          `json:"category"     validate:"omitempty,min=2,max=60"`
	Color        *string          `json:"color"`
	MinQuantity  *int             `json:"minQuantity"  validate:"omitempty,min=0"`
	UnitCost     *decimal.Decimal `json:"unitCost"`
	SellingPrice *decimal.Decimal `json:"sellingPrice"`
	Supplier     *string          `json:"supplier"`
}

// AdjustQuantityRequest applies a warehouse delta (positive = intake,
// negative = correction). Sales never go through this path.
type AdjustQuantityRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=3"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type StockFilter struct {
	Category string `form:"category"`
	Search   string `form:"search"`
	LowStock bool   `form:"lowStock"`
	Active   string `form:"active"` // "false" = inactive, "all" = everything, default active only
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type StockResponse struct {
	ID           string           `json:"id"`
	HumanCode    string           `json:"humanCode"`
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	Color        *string          `json:"color,omitempty"`
	Quantity     int              `json:"quantity"`
	MinQuantity  int              `json:"minQuantity"`
	UnitCost     decimal.Decimal  `json:"unitCost"`
	SellingPrice *decimal.Decimal `json:"sellingPrice,omitempty"`
	Supplier     *string          `json:"supplier,omitempty"`
	IsActive     bool             `json:"isActive"`
}

type StockListResponse struct {
	Data  []StockResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
