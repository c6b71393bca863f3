package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Guru6163/hotspot-sarees/internal/dto"
	"github.com/Guru6163/hotspot-sarees/internal/repository"

	"github.com/redis/go-redis/v9"
)

const (
	dashboardCacheKey = "dashboard:summary"
	dashboardCacheTTL = 60 * time.Second
	topCategoriesN    = 5
)

type DashboardService interface {
	Summary(ctx context.Context) (*dto.DashboardSummary, error)
}

type dashboardService struct {
	repo repository.DashboardRepository
	rdb  *redis.Client
	now  func() time.Time
}

func NewDashboardService(repo repository.DashboardRepository, rdb *redis.Client) DashboardService {
	return &dashboardService{repo: repo, rdb: rdb, now: time.Now}
}

// Summary aggregates today's and this month's figures. The result is cached
// for 60s — stale-by-a-minute numbers are fine for a shop dashboard, and the
// cache keeps the aggregate queries off the checkout path.
func (s *dashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var summary dto.DashboardSummary
			if json.Unmarshal([]byte(cached), &summary) == nil {
				return &summary, nil
			}
		}
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	todayCount, todayRevenue, err := s.repo.SalesBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	_, monthRevenue, err := s.repo.SalesBetween(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.repo.LowStockCount(ctx)
	if err != nil {
		return nil, err
	}
	totalQty, err := s.repo.TotalStockQty(ctx)
	if err != nil {
		return nil, err
	}
	topCategories, err := s.repo.TopCategories(ctx, monthStart, monthEnd, topCategoriesN)
	if err != nil {
		return nil, err
	}
	methods, err := s.repo.PaymentBreakdown(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	summary := &dto.DashboardSummary{
		TodaySales:     todayCount,
		TodayRevenue:   todayRevenue,
		MonthRevenue:   monthRevenue,
		LowStockCount:  lowStock,
		TotalStockQty:  totalQty,
		TopCategories:  topCategories,
		PaymentMethods: methods,
	}

	if s.rdb != nil {
		if encoded, err := json.Marshal(summary); err == nil {
			s.rdb.Set(ctx, dashboardCacheKey, encoded, dashboardCacheTTL)
		}
	}
	return summary, nil
}
