// Package worker contains the fulfillment half of the admission pipeline:
// a single sequential consumer that turns admitted tasks into persisted
// orders. Running exactly one consumer per process serializes all
// authoritative stock decrements; the per-user lock only guards against a
// second process instance running its own loop.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"flashsale/internal/domain/order"
	"flashsale/internal/infra/redis"
	"flashsale/internal/pkg/clock"
	"flashsale/internal/pkg/config"
	"flashsale/internal/pkg/errs"
	"flashsale/internal/usecase/shared"
)

// StatusMarker records terminal task outcomes for reconciliation.
type StatusMarker interface {
	Mark(ctx context.Context, orderID uint64, status order.FulfillmentStatus, ttl time.Duration) error
}

type Fulfillment struct {
	queue  *Queue
	uow    shared.UnitOfWork
	mutex  redis.Mutex
	status StatusMarker
	clock  clock.Clock
	cfg    config.SeckillConfig
	done   chan struct{}
}

func NewFulfillment(
	queue *Queue,
	uow shared.UnitOfWork,
	mutex redis.Mutex,
	status StatusMarker,
	clk clock.Clock,
	cfg config.Config,
) *Fulfillment {
	return &Fulfillment{
		queue:  queue,
		uow:    uow,
		mutex:  mutex,
		status: status,
		clock:  clk,
		cfg:    cfg.Seckill,
		done:   make(chan struct{}),
	}
}

// Start spawns the single consumer goroutine.
func (f *Fulfillment) Start() {
	go f.run()
}

// Stop closes intake and waits for the queue to drain, bounded by the
// configured stop wait.
func (f *Fulfillment) Stop(ctx context.Context) error {
	f.queue.Close()
	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fulfillment) run() {
	defer close(f.done)
	for task := range f.queue.Tasks() {
		QueueDepth.Set(float64(f.queue.Len()))
		f.handle(task)
	}
}

func (f *Fulfillment) handle(task order.AdmissionTask) {
	// Detached from any request context: once dequeued, a task runs to
	// completion or a terminal drop.
	ctx, cancel := context.WithTimeout(context.Background(), f.cfg.TaskTimeout)
	defer cancel()

	lock := f.mutex.NewLock(redis.OrderUserLockPrefix + strconv.FormatInt(task.UserID, 10))
	acquired, err := lock.TryLock(ctx, f.cfg.UserLockTTL)
	if err != nil || !acquired {
		// The admission gate already prevents duplicate admission; a lock
		// failure here means another instance holds this user.
		slog.Error("dropping task, user lock not acquired",
			"order_id", task.OrderID, "user_id", task.UserID, "error", err)
		f.mark(ctx, task.OrderID, order.StatusDroppedLock)
		return
	}
	defer func() {
		// Release must go through even when the task exhausted its budget.
		if unlockErr := lock.Unlock(context.WithoutCancel(ctx)); unlockErr != nil {
			slog.Warn("failed to release user lock", "user_id", task.UserID, "error", unlockErr)
		}
	}()

	txErr := f.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		count, err := tx.Orders().CountByUserAndVoucher(ctx, task.UserID, task.VoucherID)
		if err != nil {
			return err
		}
		if count > 0 {
			return errs.ErrDuplicateOrder
		}

		decremented, err := tx.Vouchers().DecrementStock(ctx, task.VoucherID)
		if err != nil {
			return err
		}
		if !decremented {
			return errs.ErrStockExhausted
		}

		o, err := order.NewVoucherOrder(task.OrderID, task.UserID, task.VoucherID, f.clock.Now())
		if err != nil {
			return err
		}
		return tx.Orders().Create(ctx, o)
	})

	switch {
	case txErr == nil:
		f.mark(ctx, task.OrderID, order.StatusFulfilled)
	case errors.Is(txErr, errs.ErrDuplicateOrder):
		slog.Warn("duplicate order detected at source of truth",
			"order_id", task.OrderID, "user_id", task.UserID, "voucher_id", task.VoucherID)
		f.mark(ctx, task.OrderID, order.StatusDroppedDuplicate)
	case errors.Is(txErr, errs.ErrStockExhausted):
		slog.Warn("stock exhausted at source of truth",
			"order_id", task.OrderID, "voucher_id", task.VoucherID)
		f.mark(ctx, task.OrderID, order.StatusDroppedStock)
	default:
		slog.Error("fulfillment transaction failed",
			"order_id", task.OrderID, "user_id", task.UserID, "error", txErr)
		f.mark(ctx, task.OrderID, order.StatusDroppedError)
	}
}

func (f *Fulfillment) mark(ctx context.Context, orderID uint64, status order.FulfillmentStatus) {
	FulfillmentOutcomes.WithLabelValues(string(status)).Inc()
	// Outcome records outlive the task budget that produced them.
	if err := f.status.Mark(context.WithoutCancel(ctx), orderID, status, f.cfg.FulfilledTTL); err != nil {
		slog.Error("failed to record fulfillment outcome",
			"order_id", orderID, "status", string(status), "error", err)
	}
}
