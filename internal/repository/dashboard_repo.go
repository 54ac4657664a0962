package repository

import (
	"context"
	"time"

	"go-office-inventory/internal/model"

	"gorm.io/gorm"
)

// DashboardStats for overview cards
type DashboardStats struct {
	TotalStockCount   int64 `json:"total_stock_count"`
	LowStockItemCount int64 `json:"low_stock_item_count"`
	DistinctItemCount int64 `json:"distinct_item_count"`
	CategoryCount     int64 `json:"category_count"`
}

// CategoryItemCount for the items-per-category chart
type CategoryItemCount struct {
	Name      string `json:"name"`
	ItemCount int64  `json:"item_count"`
}

// DailyTotal is one bucket of the distribution trend
type DailyTotal struct {
	Date  string `json:"date"`
	Total int64  `json:"total_distributed"`
}

// ConsumptionRow is total units distributed per item
type ConsumptionRow struct {
	Name             string  `json:"name"`
	CategoryName     *string `json:"category_name"`
	TotalDistributed int64   `json:"total_distributed"`
}

type DashboardRepository interface {
	GetStats(ctx context.Context) (*DashboardStats, error)
	ItemCountByCategory(ctx context.Context) ([]CategoryItemCount, error)
	DistributedPerDay(ctx context.Context, from time.Time) ([]DailyTotal, error)
	LowStockItems(ctx context.Context) ([]model.ItemListRow, error)
	AllItems(ctx context.Context) ([]model.ItemListRow, error)
	Consumption(ctx context.Context) ([]ConsumptionRow, error)
}

type dashboardRepo struct {
	db *gorm.DB
}

func NewDashboardRepo(db *gorm.DB) DashboardRepository {
	return &dashboardRepo{db}
}

func (r *dashboardRepo) GetStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Item{}).Select("COALESCE(SUM(current_quantity), 0)").Scan(&stats.TotalStockCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Item{}).Where("current_quantity <= low_stock_threshold").Count(&stats.LowStockItemCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Item{}).Count(&stats.DistinctItemCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Category{}).Count(&stats.CategoryCount).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *dashboardRepo) ItemCountByCategory(ctx context.Context) ([]CategoryItemCount, error) {
	results := []CategoryItemCount{}
	err := r.db.WithContext(ctx).Table("items AS i").
		Select("c.name AS name, COUNT(i.id) AS item_count").
		Joins("JOIN categories c ON i.category_id = c.id").
		Group("c.name").
		Having("COUNT(i.id) > 0").
		Order("item_count DESC, c.name ASC").
		Scan(&results).Error
	return results, err
}

// DistributedPerDay returns only the days that saw distributions; callers zero-fill
func (r *dashboardRepo) DistributedPerDay(ctx context.Context, from time.Time) ([]DailyTotal, error) {
	rows, err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("DATE(created_at) AS day, COALESCE(SUM(-quantity_change), 0) AS total").
		Where("transaction_type = ? AND created_at >= ?", model.TxDistribution, from).
		Group("DATE(created_at)").
		Order("day ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []DailyTotal{}
	for rows.Next() {
		var data DailyTotal
		if err := rows.Scan(&data.Date, &data.Total); err != nil {
			return nil, err
		}
		// Postgres hands back a timestamp string, SQLite a bare date
		if len(data.Date) > 10 {
			data.Date = data.Date[:10]
		}
		results = append(results, data)
	}
	return results, rows.Err()
}

func (r *dashboardRepo) itemRows(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("items AS i").
		Select("i.*, c.name AS category_name").
		Joins("LEFT JOIN categories c ON i.category_id = c.id")
}

func (r *dashboardRepo) LowStockItems(ctx context.Context) ([]model.ItemListRow, error) {
	rows := []model.ItemListRow{}
	err := r.itemRows(ctx).
		Where("i.current_quantity <= i.low_stock_threshold").
		Order("i.current_quantity ASC, i.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepo) AllItems(ctx context.Context) ([]model.ItemListRow, error) {
	rows := []model.ItemListRow{}
	err := r.itemRows(ctx).Order("c.name ASC, i.name ASC").Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepo) Consumption(ctx context.Context) ([]ConsumptionRow, error) {
	rows := []ConsumptionRow{}
	err := r.db.WithContext(ctx).Table("transactions AS t").
		Select("i.name AS name, c.name AS category_name, SUM(-t.quantity_change) AS total_distributed").
		Joins("JOIN items i ON t.item_id = i.id").
		Joins("LEFT JOIN categories c ON i.category_id = c.id").
		Where("t.transaction_type = ?", model.TxDistribution).
		Group("i.name, c.name").
		Order("total_distributed DESC, i.name ASC").
		Scan(&rows).Error
	return rows, err
}
