package dto

import "github.com/shopspring/decimal"

type CreateTransportRequest struct {
	Date          string          `json:"date"          validate:"required,datetime=2006-01-02"`
	Supplier      string          `json:"supplier"      validate:"required,min=2"`
	VehicleNumber *string         `json:"vehicleNumber" validate:"omitempty,max=30"`
	Cost          decimal.Decimal `json:"cost"          validate:"required"`
	Notes         *string         `json:"notes"`
}

type TransportFilter struct {
	Month string `form:"month"` // YYYY-MM; empty = all
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type TransportResponse struct {
	ID            string          `json:"id"`
	Date          string          `json:"date"`
	Supplier      string          `json:"supplier"`
	VehicleNumber *string         `json:"vehicleNumber,omitempty"`
	Cost          decimal.Decimal `json:"cost"`
	Notes         *string         `json:"notes,omitempty"`
}

type TransportListResponse struct {
	Data  []TransportResponse `json:"data"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

// TransportMonthSummary is one row of GET /api/transport/summary.
type TransportMonthSummary struct {
	Month     string          `json:"month"` // YYYY-MM
	TotalCost decimal.Decimal `json:"totalCost"`
	Trips     int64           `json:"trips"`
}
