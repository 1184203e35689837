package api

import (
	"errors"
	"net/http"
	"strconv"

	resdto "flashsale/internal/handler/dto/response"
	"flashsale/internal/handler/httperr"
	"flashsale/internal/pkg/errs"
	"flashsale/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	q queries.OrderQueries
}

func NewOrderHandler(q queries.OrderQueries) *OrderHandler {
	return &OrderHandler{q: q}
}

// @Summary Get order status
// @Description Reconcile an admitted order with its eventual fulfillment outcome
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} resdto.OrderStatusResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id}/status [get]
func (h *OrderHandler) Status(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid order id", nil)
		return
	}
	status, err := h.q.OrderStatus(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, errs.ErrOrderNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrderStatus(orderID, status))
}

// @Summary Sales leaderboard
// @Description List the most admitted vouchers by admission count
// @Tags orders
// @Produce json
// @Param limit query int false "Max entries (default 10)"
// @Success 200 {object} map[string][]resdto.LeaderboardEntryResponse
// @Failure 500 {object} map[string]string
// @Router /vouchers/leaderboard [get]
func (h *OrderHandler) Leaderboard(c *gin.Context) {
	limit := int64(10)
	if v := c.Query("limit"); v != "" {
		if iv, err := strconv.ParseInt(v, 10, 64); err == nil && iv > 0 && iv <= 100 {
			limit = iv
		}
	}
	entries, err := h.q.SalesLeaderboard(c.Request.Context(), limit)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vouchers": resdto.FromLeaderboard(entries)})
}
