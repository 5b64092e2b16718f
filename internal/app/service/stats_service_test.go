package service

import (
	"context"
	"testing"
	"time"

	"github.com/clickmobile/clickmobile-backend/internal/app/model"
	"github.com/clickmobile/clickmobile-backend/internal/app/repository"
	"github.com/clickmobile/clickmobile-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupStatsServiceTest(t *testing.T) (StatsService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	svc := NewStatsService(
		repository.NewOrderRepository(testDB),
		repository.NewUserRepository(testDB),
		nil,
	)
	return svc, testDB
}

func TestStatsService_Dashboard(t *testing.T) {
	svc, testDB := setupStatsServiceTest(t)

	require.NoError(t, testDB.Create(&model.User{
		Email: "a@example.com", PasswordHash: "hash", Name: "A",
	}).Error)
	require.NoError(t, testDB.Create(&model.User{
		Email: "b@example.com", PasswordHash: "hash", Name: "B",
	}).Error)

	createOrder(t, testDB, 1, "ORD-1", 1000)
	createOrder(t, testDB, 2, "ORD-2", 2500)

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, int64(3500), stats.TotalRevenue)
	require.Len(t, stats.DailySales, 1)
	assert.Equal(t, time.Now().Format("2006-01-02"), stats.DailySales[0].Day)
	assert.Equal(t, int64(2), stats.DailySales[0].Orders)
	assert.Equal(t, int64(3500), stats.DailySales[0].Revenue)
	assert.False(t, stats.GeneratedAt.IsZero())
}

func TestStatsService_Dashboard_CancelledOrdersExcludedFromRevenue(t *testing.T) {
	svc, testDB := setupStatsServiceTest(t)

	createOrder(t, testDB, 1, "ORD-1", 1000)
	cancelled := createOrder(t, testDB, 1, "ORD-2", 9000)
	require.NoError(t, testDB.Model(cancelled).
		Update("status", model.OrderStatusCancelled).Error)

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, int64(1000), stats.TotalRevenue)
	require.Len(t, stats.DailySales, 1)
	assert.Equal(t, int64(1), stats.DailySales[0].Orders)
}

func TestStatsService_Dashboard_Empty(t *testing.T) {
	svc, _ := setupStatsServiceTest(t)

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalUsers)
	assert.Zero(t, stats.TotalOrders)
	assert.Zero(t, stats.TotalRevenue)
	assert.Empty(t, stats.DailySales)
}

func TestStatsService_ExportSalesReport(t *testing.T) {
	svc, testDB := setupStatsServiceTest(t)

	require.NoError(t, testDB.Create(&model.User{
		Email: "a@example.com", PasswordHash: "hash", Name: "A",
	}).Error)
	createOrder(t, testDB, 1, "ORD-1", 1200)

	file, err := svc.ExportSalesReport(context.Background())
	require.NoError(t, err)

	const sheet = "Sales"
	header, err := file.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Day", header)

	day, err := file.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, time.Now().Format("2006-01-02"), day)

	revenue, err := file.GetCellValue(sheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "1200", revenue)

	// Summary block sits below the daily rows
	label, err := file.GetCellValue(sheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "Total users", label)
	users, err := file.GetCellValue(sheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "1", users)
}
