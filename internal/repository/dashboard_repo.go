package repository

import (
	"context"
	"time"

	"github.com/Guru6163/hotspot-sarees/internal/dto"
	"github.com/Guru6163/hotspot-sarees/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardRepository serves the read-only aggregates behind the dashboard.
// Nothing here mutates state; writes happen elsewhere.
type DashboardRepository interface {
	SalesBetween(ctx context.Context, from, to time.Time) (count int64, revenue decimal.Decimal, err error)
	LowStockCount(ctx context.Context) (int64, error)
	TotalStockQty(ctx context.Context) (int64, error)
	TopCategories(ctx context.Context, from, to time.Time, limit int) ([]dto.CategorySales, error)
	PaymentBreakdown(ctx context.Context, from, to time.Time) ([]dto.MethodBreakdown, error)
}

type dashboardRepo struct{ db *gorm.DB }

func NewDashboardRepository(db *gorm.DB) DashboardRepository { return &dashboardRepo{db: db} }

func (r *dashboardRepo) SalesBetween(ctx context.Context, from, to time.Time) (int64, decimal.Decimal, error) {
	var row struct {
		Count   int64
		Revenue decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS revenue").
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&row).Error
	return row.Count, row.Revenue, err
}

func (r *dashboardRepo) LowStockCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.StockItem{}).
		Where("is_active = true AND quantity <= min_quantity").
		Count(&count).Error
	return count, err
}

func (r *dashboardRepo) TotalStockQty(ctx context.Context) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).Model(&model.StockItem{}).
		Where("is_active = true").
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if total == nil {
		return 0, err
	}
	return *total, err
}

func (r *dashboardRepo) TopCategories(ctx context.Context, from, to time.Time, limit int) ([]dto.CategorySales, error) {
	var rows []dto.CategorySales
	err := r.db.WithContext(ctx).Model(&model.PurchaseItem{}).
		Select("stock_items.category AS category, SUM(purchase_items.quantity) AS quantity, SUM(purchase_items.total_price) AS revenue").
		Joins("JOIN stock_items ON stock_items.id = purchase_items.stock_item_id").
		Joins("JOIN purchases ON purchases.id = purchase_items.purchase_id").
		Where("purchases.created_at >= ? AND purchases.created_at < ?", from, to).
		Group("stock_items.category").
		Order("revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepo) PaymentBreakdown(ctx context.Context, from, to time.Time) ([]dto.MethodBreakdown, error) {
	var rows []dto.MethodBreakdown
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Select("payment_method AS method, COUNT(*) AS count, SUM(total_amount) AS amount").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("payment_method").
		Order("amount DESC").
		Scan(&rows).Error
	return rows, err
}
