package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/casafin/casafin_backend/internal/core/ports/services"
	"github.com/casafin/casafin_backend/internal/dto"
	"github.com/casafin/casafin_backend/internal/middleware"
	"github.com/casafin/casafin_backend/internal/utils/months"
)

// budgetHandler handles the budget structure and the monthly budget view.
type budgetHandler struct {
	budgetService    portssvc.BudgetSvcFacade
	reportingService portssvc.ReportingSvcFacade
}

func newBudgetHandler(bs portssvc.BudgetSvcFacade, rs portssvc.ReportingSvcFacade) *budgetHandler {
	return &budgetHandler{budgetService: bs, reportingService: rs}
}

// registerBudgetRoutes registers the budget structure routes.
func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade, reportingService portssvc.ReportingSvcFacade) {
	h := newBudgetHandler(budgetService, reportingService)

	budget := rg.Group("/budget")
	{
		budget.POST("/groups", h.createGroup)
		budget.PUT("/groups/:id", h.updateGroup)
		budget.DELETE("/groups/:id", h.deleteGroup)

		budget.POST("/categories", h.createCategory)
		budget.PUT("/categories/:id", h.updateCategory)
		budget.DELETE("/categories/:id", h.deleteCategory)

		budget.GET("/months/:month", h.getMonthlyBudget)
		budget.POST("/months/:month/sync", h.syncMonth)
	}
}

func (h *budgetHandler) createGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateGroup", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	group, err := h.budgetService.CreateGroup(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create group")
		return
	}
	c.JSON(http.StatusCreated, dto.ToGroupResponse(group))
}

func (h *budgetHandler) updateGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateGroup", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.budgetService.UpdateGroup(c.Request.Context(), c.Param("id"), req, userID); err != nil {
		respondError(c, logger, err, "Failed to update group")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *budgetHandler) deleteGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.budgetService.DeleteGroup(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, logger, err, "Failed to delete group")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *budgetHandler) createCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	category, err := h.budgetService.CreateCategory(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCategoryResponse(category))
}

func (h *budgetHandler) updateCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.budgetService.UpdateCategory(c.Request.Context(), c.Param("id"), req, userID); err != nil {
		respondError(c, logger, err, "Failed to update category")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *budgetHandler) deleteCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.budgetService.DeleteCategory(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, logger, err, "Failed to delete category")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *budgetHandler) getMonthlyBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	month, err := months.Parse(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month, expected YYYY-MM"})
		return
	}

	view, err := h.reportingService.GetMonthlyBudget(c.Request.Context(), month)
	if err != nil {
		respondError(c, logger, err, "Failed to load monthly budget")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *budgetHandler) syncMonth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	month, err := months.Parse(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month, expected YYYY-MM"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	created, err := h.budgetService.SyncMonth(c.Request.Context(), month, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to sync month")
		return
	}
	c.JSON(http.StatusOK, dto.SyncMonthResponse{Created: created})
}
