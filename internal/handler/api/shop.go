package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"flashsale/internal/domain/shop"
	resdto "flashsale/internal/handler/dto/response"
	"flashsale/internal/handler/httperr"
	"flashsale/internal/pkg/errs"
	"flashsale/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ShopHandler struct {
	q queries.ShopQueries
}

func NewShopHandler(q queries.ShopQueries) *ShopHandler {
	return &ShopHandler{q: q}
}

// @Summary Get shop
// @Description Read a shop through the pass-through cache
// @Tags shops
// @Produce json
// @Param id path int true "Shop ID"
// @Success 200 {object} resdto.ShopResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /shops/{id} [get]
func (h *ShopHandler) Get(c *gin.Context) {
	h.serve(c, h.q.ShopByID)
}

// @Summary Get hot shop
// @Description Read a contended shop; cache rebuilds serialize behind a distributed lock
// @Tags shops
// @Produce json
// @Param id path int true "Shop ID"
// @Success 200 {object} resdto.ShopResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /shops/{id}/hot [get]
func (h *ShopHandler) GetHot(c *gin.Context) {
	h.serve(c, h.q.HotShopByID)
}

func (h *ShopHandler) serve(c *gin.Context, load func(context.Context, int64) (*shop.Shop, error)) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid shop id", nil)
		return
	}
	s, err := load(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrShopNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Shop not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromShop(s))
}
