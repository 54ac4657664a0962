package service

import (
	"context"
	"time"

	"go-office-inventory/internal/model"
	"go-office-inventory/internal/repository"
)

const (
	trendDays      = 30
	recentActivity = 7
)

type DashboardService interface {
	Overview(ctx context.Context) (*DashboardOverview, error)
	DistributionTrend(ctx context.Context, days int) ([]repository.DailyTotal, error)
}

type DashboardOverview struct {
	Stats             *repository.DashboardStats     `json:"stats"`
	RecentActivity    []model.TransactionLogRow      `json:"recent_activity"`
	ItemsByCategory   []repository.CategoryItemCount `json:"items_by_category"`
	DistributionTrend []repository.DailyTotal        `json:"distribution_trend"`
	LowStockItems     []model.ItemListRow            `json:"low_stock_items"`
}

type dashboardService struct {
	dashboardRepo repository.DashboardRepository
	txRepo        repository.TransactionRepository
	now           func() time.Time
}

func NewDashboardService(dashboardRepo repository.DashboardRepository, txRepo repository.TransactionRepository) DashboardService {
	return &dashboardService{
		dashboardRepo: dashboardRepo,
		txRepo:        txRepo,
		now:           time.Now,
	}
}

func (s *dashboardService) Overview(ctx context.Context) (*DashboardOverview, error) {
	stats, err := s.dashboardRepo.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	recent, _, err := s.txRepo.List(ctx, repository.TransactionFilter{
		Types: []model.TransactionType{model.TxDistribution, model.TxReturn},
		Limit: recentActivity,
	})
	if err != nil {
		return nil, err
	}

	byCategory, err := s.dashboardRepo.ItemCountByCategory(ctx)
	if err != nil {
		return nil, err
	}

	trend, err := s.DistributionTrend(ctx, trendDays)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.dashboardRepo.LowStockItems(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardOverview{
		Stats:             stats,
		RecentActivity:    recent,
		ItemsByCategory:   byCategory,
		DistributionTrend: trend,
		LowStockItems:     lowStock,
	}, nil
}

// DistributionTrend returns one bucket per day, oldest first, ending today (UTC). Days without distributions are zero.
func (s *dashboardService) DistributionTrend(ctx context.Context, days int) ([]repository.DailyTotal, error) {
	if days < 1 {
		days = trendDays
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	from := today.AddDate(0, 0, -(days - 1))

	rows, err := s.dashboardRepo.DistributedPerDay(ctx, from)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]int64, len(rows))
	for _, r := range rows {
		totals[r.Date] = r.Total
	}

	trend := make([]repository.DailyTotal, days)
	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i).Format("2006-01-02")
		trend[i] = repository.DailyTotal{Date: date, Total: totals[date]}
	}
	return trend, nil
}
