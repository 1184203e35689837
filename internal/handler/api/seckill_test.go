//go:build unit

package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"flashsale/internal/handler/api"
	"flashsale/internal/handler/middleware"
	"flashsale/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

type stubSeckillCommands struct {
	orderID uint64
	err     error

	gotVoucherID int64
	gotUserID    int64
}

func (s *stubSeckillCommands) AttemptSeckill(_ context.Context, voucherID, userID int64) (uint64, error) {
	s.gotVoucherID = voucherID
	s.gotUserID = userID
	return s.orderID, s.err
}

type SeckillHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
	cmds   *stubSeckillCommands
}

func (s *SeckillHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler())

	s.cmds = &stubSeckillCommands{orderID: 8453276098134016}
	handler := api.NewSeckillHandler(s.cmds)
	s.router.POST("/api/vouchers/:id/seckill", handler.Attempt)
}

func TestSeckillHandlerSuite(t *testing.T) {
	suite.Run(t, new(SeckillHandlerTestSuite))
}

func (s *SeckillHandlerTestSuite) attempt(voucherID, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/vouchers/"+voucherID+"/seckill", nil)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *SeckillHandlerTestSuite) TestAccepted() {
	rec := s.attempt("7", "42")

	s.Equal(http.StatusAccepted, rec.Code)
	s.Contains(rec.Body.String(), `"order_id":"8453276098134016"`)
	s.Contains(rec.Body.String(), `"status":"pending"`)
	s.Equal(int64(7), s.cmds.gotVoucherID)
	s.Equal(int64(42), s.cmds.gotUserID)
}

func (s *SeckillHandlerTestSuite) TestMissingUserHeader() {
	rec := s.attempt("7", "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *SeckillHandlerTestSuite) TestInvalidVoucherID() {
	rec := s.attempt("not-a-number", "42")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *SeckillHandlerTestSuite) TestErrorMapping() {
	cases := []struct {
		name       string
		err        error
		expectCode int
	}{
		{name: "duplicate order", err: errs.ErrDuplicateOrder, expectCode: http.StatusConflict},
		{name: "stock exhausted", err: errs.ErrStockExhausted, expectCode: http.StatusGone},
		{name: "sale not started", err: errs.ErrSaleNotStarted, expectCode: http.StatusTooEarly},
		{name: "sale ended", err: errs.ErrSaleEnded, expectCode: http.StatusGone},
		{name: "queue saturated", err: errs.ErrQueueSaturated, expectCode: http.StatusServiceUnavailable},
		{name: "admission failed", err: errs.ErrAdmissionFailed, expectCode: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.cmds.err = tc.err
			rec := s.attempt("7", "42")
			s.Equal(tc.expectCode, rec.Code)
		})
	}
}
