package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/clickmobile/clickmobile-backend/internal/app/service"
	"github.com/clickmobile/clickmobile-backend/internal/errors"
	"github.com/clickmobile/clickmobile-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type StatsController struct {
	statsService service.StatsService
}

func NewStatsController(statsService service.StatsService) *StatsController {
	return &StatsController{
		statsService: statsService,
	}
}

// Dashboard returns the aggregate storefront statistics. The payload is
// cached; use the refresh endpoint to force a recomputation.
// GET /api/v1/admin/stats
func (ctrl *StatsController) Dashboard(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.statsService.Dashboard(c.Request.Context())
	if err != nil {
		log.Error("Failed to compute dashboard stats", err, nil)
		errors.Internal(c, "Failed to compute statistics")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// RefreshDashboard recomputes the statistics and rewrites the cache.
// POST /api/v1/admin/stats/refresh
func (ctrl *StatsController) RefreshDashboard(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.statsService.RefreshDashboard(c.Request.Context())
	if err != nil {
		log.Error("Failed to refresh dashboard stats", err, nil)
		errors.Internal(c, "Failed to refresh statistics")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportSalesReport streams the sales report as an xlsx workbook.
// GET /api/v1/admin/stats/export
func (ctrl *StatsController) ExportSalesReport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	file, err := ctrl.statsService.ExportSalesReport(c.Request.Context())
	if err != nil {
		log.Error("Failed to build sales report", err, nil)
		errors.Internal(c, "Failed to build sales report")
		return
	}

	filename := fmt.Sprintf("sales-report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := file.Write(c.Writer); err != nil {
		log.Error("Failed to stream sales report", err, nil)
	}
}
