package api

import (
	"errors"
	"net/http"
	"strconv"

	resdto "flashsale/internal/handler/dto/response"
	"flashsale/internal/handler/httperr"
	"flashsale/internal/pkg/errs"
	"flashsale/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type SeckillHandler struct {
	cmds commands.SeckillCommands
}

func NewSeckillHandler(cmds commands.SeckillCommands) *SeckillHandler {
	return &SeckillHandler{cmds: cmds}
}

// @Summary Attempt a flash-sale purchase
// @Description Admit at most one order per user per voucher; fulfillment is asynchronous
// @Tags seckill
// @Produce json
// @Param id path int true "Voucher ID"
// @Param X-User-ID header int true "User ID"
// @Success 202 {object} resdto.SeckillAcceptedResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /vouchers/{id}/seckill [post]
func (h *SeckillHandler) Attempt(c *gin.Context) {
	voucherID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid voucher id", nil)
		return
	}
	userID, ok := headerUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.New("missing user identity"), "Missing X-User-ID", nil)
		return
	}

	orderID, err := h.cmds.AttemptSeckill(c.Request.Context(), voucherID, userID)
	if err != nil {
		abortSeckillError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resdto.FromAdmission(orderID))
}

func abortSeckillError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrDuplicateOrder):
		httperr.AbortWithError(c, http.StatusConflict, err, "Already ordered", nil)
	case errors.Is(err, errs.ErrStockExhausted):
		httperr.AbortWithError(c, http.StatusGone, err, "Sold out", nil)
	case errors.Is(err, errs.ErrSaleNotStarted):
		httperr.AbortWithError(c, http.StatusTooEarly, err, "Sale has not started", nil)
	case errors.Is(err, errs.ErrSaleEnded):
		httperr.AbortWithError(c, http.StatusGone, err, "Sale has ended", nil)
	case errors.Is(err, errs.ErrQueueSaturated):
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Try again shortly", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
	}
}

func headerUserID(c *gin.Context) (int64, bool) {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
