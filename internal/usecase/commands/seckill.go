package commands

import (
	"context"
	"log/slog"
	"time"

	"flashsale/internal/domain/order"
	"flashsale/internal/infra/redis"
	"flashsale/internal/pkg/clock"
	"flashsale/internal/pkg/config"
	"flashsale/internal/pkg/errs"
)

// AdmissionGate runs the atomic cache-side admission decision.
type AdmissionGate interface {
	Attempt(ctx context.Context, voucherID, userID int64, nowUnix int64) (redis.Verdict, error)
}

// IDGenerator hands out globally unique, monotonically increasing ids per
// business key. Externally coordinated; never repeats.
type IDGenerator interface {
	NextID(ctx context.Context, businessKey string) (uint64, error)
}

// TaskQueue is the bounded handoff to the fulfillment worker.
type TaskQueue interface {
	TryEnqueue(task order.AdmissionTask) error
}

// StatusMarker records the observable outcome of an admitted order.
type StatusMarker interface {
	Mark(ctx context.Context, orderID uint64, status order.FulfillmentStatus, ttl time.Duration) error
}

// AdmissionRecorder collects peripheral admission signals (leaderboard,
// activity bitmap). Best-effort only.
type AdmissionRecorder interface {
	RecordAdmission(ctx context.Context, voucherID, userID int64, now time.Time) error
}

type SeckillCommands interface {
	// AttemptSeckill admits at most one order per (user, voucher). On
	// success the caller gets an order id immediately while fulfillment
	// happens in the background.
	AttemptSeckill(ctx context.Context, voucherID, userID int64) (uint64, error)
}

type seckillCommandsImpl struct {
	gate     AdmissionGate
	idGen    IDGenerator
	queue    TaskQueue
	status   StatusMarker
	recorder AdmissionRecorder
	clock    clock.Clock
	cfg      config.SeckillConfig
}

func NewSeckillCommands(
	gate AdmissionGate,
	idGen IDGenerator,
	queue TaskQueue,
	status StatusMarker,
	recorder AdmissionRecorder,
	clk clock.Clock,
	cfg config.Config,
) SeckillCommands {
	return &seckillCommandsImpl{
		gate:     gate,
		idGen:    idGen,
		queue:    queue,
		status:   status,
		recorder: recorder,
		clock:    clk,
		cfg:      cfg.Seckill,
	}
}

func (s *seckillCommandsImpl) AttemptSeckill(ctx context.Context, voucherID, userID int64) (uint64, error) {
	now := s.clock.Now()

	verdict, err := s.gate.Attempt(ctx, voucherID, userID, now.Unix())
	if err != nil {
		return 0, errs.Mark(err, errs.ErrAdmissionFailed)
	}
	switch verdict {
	case redis.VerdictAdmitted:
	case redis.VerdictStockExhausted:
		return 0, errs.ErrStockExhausted
	case redis.VerdictDuplicateOrder:
		return 0, errs.ErrDuplicateOrder
	case redis.VerdictNotStarted:
		return 0, errs.ErrSaleNotStarted
	case redis.VerdictEnded:
		return 0, errs.ErrSaleEnded
	default:
		return 0, errs.ErrAdmissionFailed
	}

	orderID, err := s.idGen.NextID(ctx, "order")
	if err != nil {
		// The cached stock is already decremented; the worker-side
		// re-check keeps the source of truth honest either way.
		return 0, errs.Mark(err, errs.ErrAdmissionFailed)
	}

	task := order.AdmissionTask{
		OrderID:   orderID,
		UserID:    userID,
		VoucherID: voucherID,
	}

	// The pending mark lands before the task is visible to the worker, so
	// the worker's terminal mark is always the last write for an order.
	if err := s.status.Mark(ctx, orderID, order.StatusPending, s.cfg.PendingTTL); err != nil {
		slog.Warn("failed to mark order pending", "order_id", orderID, "error", err)
	}
	if err := s.queue.TryEnqueue(task); err != nil {
		slog.Error("fulfillment queue saturated", "order_id", orderID, "user_id", userID)
		return 0, err
	}
	if err := s.recorder.RecordAdmission(ctx, voucherID, userID, now); err != nil {
		slog.Warn("failed to record admission analytics", "voucher_id", voucherID, "error", err)
	}

	return orderID, nil
}
