package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/casafin/casafin_backend/internal/core/ports/services"
	"github.com/casafin/casafin_backend/internal/dto"
	"github.com/casafin/casafin_backend/internal/middleware"
	"github.com/casafin/casafin_backend/internal/utils/months"
)

// sharedHandler handles shared-expense balance and settlement.
type sharedHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

func newSharedHandler(ss portssvc.SettlementSvcFacade) *sharedHandler {
	return &sharedHandler{settlementService: ss}
}

// registerSharedRoutes registers the shared-expense routes.
func registerSharedRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	h := newSharedHandler(settlementService)

	shared := rg.Group("/shared")
	{
		shared.GET("/balance", h.getBalance)
		shared.POST("/settle", h.settle)
	}
}

func (h *sharedHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	month, err := months.Parse(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month, expected YYYY-MM"})
		return
	}

	balance, err := h.settlementService.MonthlyBalance(c.Request.Context(), month)
	if err != nil {
		respondError(c, logger, err, "Failed to compute shared balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToSharedBalanceResponse(balance, months.Format(month)))
}

func (h *sharedHandler) settle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	month, err := months.Parse(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month, expected YYYY-MM"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.settlementService.Settle(c.Request.Context(), month, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to settle shared expenses")
		return
	}
	c.JSON(http.StatusOK, resp)
}
