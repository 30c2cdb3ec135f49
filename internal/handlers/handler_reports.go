package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/casafin/casafin_backend/internal/core/ports/services"
	"github.com/casafin/casafin_backend/internal/middleware"
	"github.com/casafin/casafin_backend/internal/utils/months"
)

// reportsHandler serves derived read-side views.
type reportsHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportsHandler(rs portssvc.ReportingSvcFacade) *reportsHandler {
	return &reportsHandler{reportingService: rs}
}

// registerReportRoutes registers the reporting routes.
func registerReportRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportsHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/dashboard", h.getDashboard)
	}
}

func (h *reportsHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	month, err := months.Parse(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month, expected YYYY-MM"})
		return
	}

	summary, err := h.reportingService.GetDashboardSummary(c.Request.Context(), month)
	if err != nil {
		respondError(c, logger, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, summary)
}
