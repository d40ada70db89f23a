package repository

import (
	"context"
	"time"

	"github.com/nig3l/OPTACOMP-InventorySystems/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailySales is one row of the sales chart.
type DailySales struct {
	Date    string          `json:"date"`
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DashboardStats summarises catalog and stock health.
type DashboardStats struct {
	TotalProducts   int64           `json:"total_products"`
	LowStockCount   int64           `json:"low_stock_count"`
	OutOfStockCount int64           `json:"out_of_stock_count"`
	StockValuation  decimal.Decimal `json:"stock_valuation"`
}

type ReportRepository interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
	GetSalesSummary(ctx context.Context, startDate, endDate time.Time) ([]DailySales, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) GetSalesSummary(ctx context.Context, startDate, endDate time.Time) ([]DailySales, error) {
	var results []DailySales

	// Aggregate committed sales per day
	rows, err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select(`
			TO_CHAR(DATE(created_at), 'YYYY-MM-DD') as date,
			COUNT(*) as count,
			COALESCE(SUM(total_amount), 0) as revenue
		`).
		Where("status = ? AND created_at >= ? AND created_at < ?", model.SaleCommitted, startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data DailySales
		if err := rows.Scan(&data.Date, &data.Count, &data.Revenue); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}

func (r *reportRepo) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&model.InventoryItem{}).
		Where("status = ?", model.StatusLowStock).
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	// Products without an inventory row count as out of stock.
	if err := db.Model(&model.Product{}).
		Joins("LEFT JOIN inventory ON inventory.product_id = products.id").
		Where("inventory.id IS NULL OR inventory.quantity <= 0").
		Count(&stats.OutOfStockCount).Error; err != nil {
		return nil, err
	}

	// Valuation at cost: SUM(quantity * cost_price)
	if err := db.Model(&model.InventoryItem{}).
		Joins("JOIN products ON products.id = inventory.product_id").
		Select("COALESCE(SUM(inventory.quantity * products.cost_price), 0)").
		Scan(&stats.StockValuation).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
