package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clickmobile/clickmobile-backend/internal/app/repository"
	"github.com/clickmobile/clickmobile-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
)

const (
	dashboardCacheKey = "stats:dashboard"
	dashboardCacheTTL = 10 * time.Minute
	salesWindowDays   = 30
)

// DashboardStats is the admin dashboard payload.
type DashboardStats struct {
	TotalUsers   int64                   `json:"total_users"`
	TotalOrders  int64                   `json:"total_orders"`
	TotalRevenue int64                   `json:"total_revenue"`
	DailySales   []repository.DailySales `json:"daily_sales"`
	GeneratedAt  time.Time               `json:"generated_at"`
}

type StatsService interface {
	// Dashboard serves the cached payload when fresh, recomputing on miss.
	Dashboard(ctx context.Context) (*DashboardStats, error)
	// RefreshDashboard recomputes the payload and rewrites the cache. The
	// scheduler calls this on a fixed cadence.
	RefreshDashboard(ctx context.Context) (*DashboardStats, error)
	// ExportSalesReport renders the current stats as an xlsx workbook.
	ExportSalesReport(ctx context.Context) (*excelize.File, error)
}

type statsService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	cache     *redis.Client
}

// NewStatsService builds the admin statistics service. cache may be nil,
// in which case every call recomputes.
func NewStatsService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	cache *redis.Client,
) StatsService {
	return &statsService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		cache:     cache,
	}
}

func (s *statsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, dashboardCacheKey).Bytes()
		if err == nil {
			var stats DashboardStats
			if err := json.Unmarshal(raw, &stats); err == nil {
				logger.Debug("Dashboard stats served from cache", map[string]interface{}{
					"generated_at": stats.GeneratedAt,
				})
				return &stats, nil
			}
		} else if err != redis.Nil {
			logger.Warn("Dashboard cache read failed, recomputing", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return s.RefreshDashboard(ctx)
}

func (s *statsService) RefreshDashboard(ctx context.Context) (*DashboardStats, error) {
	totalUsers, err := s.userRepo.CountAll()
	if err != nil {
		return nil, err
	}
	totalOrders, err := s.orderRepo.CountAll()
	if err != nil {
		return nil, err
	}
	totalRevenue, err := s.orderRepo.TotalRevenue()
	if err != nil {
		return nil, err
	}
	since := time.Now().AddDate(0, 0, -salesWindowDays)
	dailySales, err := s.orderRepo.SalesSince(since)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalUsers:   totalUsers,
		TotalOrders:  totalOrders,
		TotalRevenue: totalRevenue,
		DailySales:   dailySales,
		GeneratedAt:  time.Now(),
	}

	if s.cache != nil {
		raw, err := json.Marshal(stats)
		if err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL).Err(); err != nil {
				logger.Warn("Failed to cache dashboard stats", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}

	logger.Info("Dashboard stats refreshed", map[string]interface{}{
		"total_users":   totalUsers,
		"total_orders":  totalOrders,
		"total_revenue": totalRevenue,
	})
	return stats, nil
}

func (s *statsService) ExportSalesReport(ctx context.Context) (*excelize.File, error) {
	stats, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Sales"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{"Day", "Orders", "Revenue"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	for row, day := range stats.DailySales {
		values := []interface{}{
			day.Day,
			day.Orders,
			day.Revenue,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	summaryRow := len(stats.DailySales) + 3
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Total users")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow), stats.TotalUsers)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow+1), "Total orders")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow+1), stats.TotalOrders)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow+2), "Total revenue")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow+2), stats.TotalRevenue)

	logger.Info("Sales report exported", map[string]interface{}{
		"days": len(stats.DailySales),
	})
	return f, nil
}
