package service

import (
	"context"
	"time"

	"github.com/nig3l/OPTACOMP-InventorySystems/internal/repository"
)

type DashboardService interface {
	GetSalesSummary(ctx context.Context, days int) ([]repository.DailySales, error)
	GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error)
}

type dashboardService struct {
	reportRepo repository.ReportRepository
	now        func() time.Time
}

func NewDashboardService(reportRepo repository.ReportRepository) DashboardService {
	return &dashboardService{reportRepo: reportRepo, now: time.Now}
}

// GetSalesSummary covers today and the days-1 calendar days before it.
func (s *dashboardService) GetSalesSummary(ctx context.Context, days int) ([]repository.DailySales, error) {
	if days <= 0 {
		days = 7
	}
	endDate := truncateDay(s.now()).AddDate(0, 0, 1)
	startDate := endDate.AddDate(0, 0, -days)

	return s.reportRepo.GetSalesSummary(ctx, startDate, endDate)
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error) {
	return s.reportRepo.GetDashboardStats(ctx)
}
