package api

import (
	"errors"
	"net/http"
	"strconv"

	resdto "flashsale/internal/handler/dto/response"
	"flashsale/internal/handler/httperr"
	"flashsale/internal/pkg/errs"
	"flashsale/internal/usecase/commands"
	"flashsale/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type VoucherHandler struct {
	q     queries.VoucherQueries
	admin commands.VoucherAdminCommands
}

func NewVoucherHandler(q queries.VoucherQueries, admin commands.VoucherAdminCommands) *VoucherHandler {
	return &VoucherHandler{q: q, admin: admin}
}

// @Summary Get voucher
// @Description Read a campaign voucher; logically expired entries are served stale while a rebuild runs
// @Tags vouchers
// @Produce json
// @Param id path int true "Voucher ID"
// @Success 200 {object} resdto.VoucherResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /vouchers/{id} [get]
func (h *VoucherHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid voucher id", nil)
		return
	}
	view, err := h.q.VoucherByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrVoucherNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Voucher not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromVoucherView(view))
}

// @Summary Warm voucher campaign
// @Description Pre-warm the voucher cache entry and seed the admission gate keys
// @Tags vouchers
// @Param id path int true "Voucher ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/vouchers/{id}/warm [post]
func (h *VoucherHandler) Warm(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid voucher id", nil)
		return
	}
	if err := h.admin.WarmVoucher(c.Request.Context(), id); err != nil {
		if errors.Is(err, errs.ErrVoucherNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Voucher not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Warm failed", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
