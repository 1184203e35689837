package queries

import (
	"context"

	"flashsale/internal/domain/order"
	"flashsale/internal/infra"
	"flashsale/internal/infra/redis"
	"flashsale/internal/pkg/errs"
)

// StatusReader reads the fulfillment outcome channel.
type StatusReader interface {
	Get(ctx context.Context, orderID uint64) (order.FulfillmentStatus, error)
}

// OrderReadStore loads persisted orders.
type OrderReadStore interface {
	FindByID(ctx context.Context, orderID uint64) (*order.VoucherOrder, error)
}

// SalesReader reads the admission leaderboard.
type SalesReader interface {
	TopSellers(ctx context.Context, n int64) ([]redis.VoucherSales, error)
}

type OrderQueries interface {
	// OrderStatus lets callers and operators reconcile the optimistic
	// admission response with the eventual fulfillment outcome.
	OrderStatus(ctx context.Context, orderID uint64) (order.FulfillmentStatus, error)

	// SalesLeaderboard lists the most admitted vouchers.
	SalesLeaderboard(ctx context.Context, n int64) ([]redis.VoucherSales, error)
}

type orderQueriesImpl struct {
	status StatusReader
	orders OrderReadStore
	sales  SalesReader
}

func NewOrderQueries(status StatusReader, orders OrderReadStore, sales SalesReader) OrderQueries {
	return &orderQueriesImpl{
		status: status,
		orders: orders,
		sales:  sales,
	}
}

func (q *orderQueriesImpl) OrderStatus(ctx context.Context, orderID uint64) (order.FulfillmentStatus, error) {
	status, err := q.status.Get(ctx, orderID)
	if err != nil {
		return order.StatusUnknown, err
	}
	if status != order.StatusUnknown {
		return status, nil
	}

	// The mark may have expired; the order table is the ground truth.
	if _, err := q.orders.FindByID(ctx, orderID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return order.StatusUnknown, errs.ErrOrderNotFound
		}
		return order.StatusUnknown, err
	}
	return order.StatusFulfilled, nil
}

func (q *orderQueriesImpl) SalesLeaderboard(ctx context.Context, n int64) ([]redis.VoucherSales, error) {
	return q.sales.TopSellers(ctx, n)
}
