package dto

import "github.com/shopspring/decimal"

// DashboardSummary is the cached payload of GET /api/dashboard/summary.
type DashboardSummary struct {
	TodaySales     int64             `json:"todaySales"`
	TodayRevenue   decimal.Decimal   `json:"todayRevenue"`
	MonthRevenue   decimal.Decimal   `json:"monthRevenue"`
	LowStockCount  int64             `json:"lowStockCount"`
	TotalStockQty  int64             `json:"totalStockQty"`
	TopCategories  []CategorySales   `json:"topCategories"`
	PaymentMethods []MethodBreakdown `json:"paymentMethods"`
}

type CategorySales struct {
	Category string          `json:"category"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type MethodBreakdown struct {
	Method string          `json:"method"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}
