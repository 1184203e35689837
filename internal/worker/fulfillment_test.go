//go:build unit

package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"flashsale/internal/domain/order"
	"flashsale/internal/infra/redis"
	"flashsale/internal/infra/redis/redistest"
	"flashsale/internal/pkg/clock"
	"flashsale/internal/pkg/config"
	"flashsale/internal/pkg/errs"
	"flashsale/internal/usecase/shared"
	"flashsale/internal/worker"

	"github.com/stretchr/testify/suite"
)

// fakeLedger is an in-memory source of truth: a stock counter plus an
// order table with the (user, voucher) uniqueness rule.
type fakeLedger struct {
	mu     sync.Mutex
	stock  map[int64]int32
	orders map[[2]int64]uint64
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		stock:  make(map[int64]int32),
		orders: make(map[[2]int64]uint64),
	}
}

func (l *fakeLedger) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(ctx, &fakeTx{ledger: l})
}

type fakeTx struct {
	ledger *fakeLedger
}

func (t *fakeTx) Orders() shared.OrderRepository { return &fakeOrders{ledger: t.ledger} }

func (t *fakeTx) Vouchers() shared.VoucherRepository { return &fakeVouchers{ledger: t.ledger} }

type fakeOrders struct {
	ledger *fakeLedger
}

func (r *fakeOrders) CountByUserAndVoucher(_ context.Context, userID, voucherID int64) (int64, error) {
	if _, ok := r.ledger.orders[[2]int64{userID, voucherID}]; ok {
		return 1, nil
	}
	return 0, nil
}

func (r *fakeOrders) Create(_ context.Context, o *order.VoucherOrder) error {
	r.ledger.orders[[2]int64{o.UserID(), o.VoucherID()}] = o.OrderID()
	return nil
}

type fakeVouchers struct {
	ledger *fakeLedger
}

func (r *fakeVouchers) DecrementStock(_ context.Context, voucherID int64) (bool, error) {
	if r.ledger.stock[voucherID] <= 0 {
		return false, nil
	}
	r.ledger.stock[voucherID]--
	return true, nil
}

// stalledLedger never completes: every transaction blocks until the task
// budget runs out.
type stalledLedger struct{}

func (l *stalledLedger) Within(ctx context.Context, _ func(ctx context.Context, tx shared.Tx) error) error {
	<-ctx.Done()
	return ctx.Err()
}

type fakeStatus struct {
	mu    sync.Mutex
	marks map[uint64]order.FulfillmentStatus
}

func newFakeStatus() *fakeStatus {
	return &fakeStatus{marks: make(map[uint64]order.FulfillmentStatus)}
}

func (s *fakeStatus) Mark(_ context.Context, orderID uint64, status order.FulfillmentStatus, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks[orderID] = status
	return nil
}

func (s *fakeStatus) get(orderID uint64) order.FulfillmentStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.marks[orderID]; ok {
		return st
	}
	return order.StatusUnknown
}

type FulfillmentTestSuite struct {
	suite.Suite
	clk    *clock.MockClock
	store  *redistest.Store
	mutex  redis.Mutex
	ledger *fakeLedger
	status *fakeStatus
	queue  *worker.Queue
	f      *worker.Fulfillment
}

func (s *FulfillmentTestSuite) SetupTest() {
	s.clk = clock.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s.store = redistest.NewStore(s.clk)
	s.mutex = redis.NewMutex(s.store)
	s.ledger = newFakeLedger()
	s.status = newFakeStatus()
	s.queue = worker.NewQueue(64)

	cfg := config.NewTestConfig()
	s.f = worker.NewFulfillment(s.queue, s.ledger, s.mutex, s.status, s.clk, cfg)
}

func TestFulfillmentSuite(t *testing.T) {
	suite.Run(t, new(FulfillmentTestSuite))
}

func (s *FulfillmentTestSuite) drain(tasks ...order.AdmissionTask) {
	for _, task := range tasks {
		s.Require().NoError(s.queue.TryEnqueue(task))
	}
	s.f.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Require().NoError(s.f.Stop(ctx))
}

func (s *FulfillmentTestSuite) TestFulfillsAdmittedTask() {
	s.ledger.stock[7] = 3

	s.drain(order.AdmissionTask{OrderID: 100, UserID: 1, VoucherID: 7})

	s.Equal(order.StatusFulfilled, s.status.get(100))
	s.Equal(int32(2), s.ledger.stock[7])
	s.Equal(uint64(100), s.ledger.orders[[2]int64{1, 7}])
}

func (s *FulfillmentTestSuite) TestDropsDuplicate() {
	s.ledger.stock[7] = 3
	s.ledger.orders[[2]int64{1, 7}] = 99

	s.drain(order.AdmissionTask{OrderID: 100, UserID: 1, VoucherID: 7})

	s.Equal(order.StatusDroppedDuplicate, s.status.get(100))
	s.Equal(int32(3), s.ledger.stock[7], "a duplicate must not consume stock")
}

func (s *FulfillmentTestSuite) TestDropsWhenStockExhausted() {
	s.ledger.stock[7] = 0

	s.drain(order.AdmissionTask{OrderID: 100, UserID: 1, VoucherID: 7})

	s.Equal(order.StatusDroppedStock, s.status.get(100))
	_, exists := s.ledger.orders[[2]int64{1, 7}]
	s.False(exists)
}

func (s *FulfillmentTestSuite) TestDropsWhenUserLockHeld() {
	s.ledger.stock[7] = 3

	blocker := s.mutex.NewLock(redis.OrderUserLockPrefix + "1")
	ok, err := blocker.TryLock(context.Background(), time.Minute)
	s.Require().NoError(err)
	s.Require().True(ok)

	s.drain(order.AdmissionTask{OrderID: 100, UserID: 1, VoucherID: 7})

	s.Equal(order.StatusDroppedLock, s.status.get(100))
	s.Equal(int32(3), s.ledger.stock[7])
}

func (s *FulfillmentTestSuite) TestNeverOversells() {
	s.ledger.stock[7] = 2

	tasks := make([]order.AdmissionTask, 0, 5)
	for i := int64(1); i <= 5; i++ {
		tasks = append(tasks, order.AdmissionTask{OrderID: uint64(100 + i), UserID: i, VoucherID: 7})
	}
	s.drain(tasks...)

	s.Equal(int32(0), s.ledger.stock[7])
	s.Len(s.ledger.orders, 2)

	fulfilled := 0
	for i := int64(1); i <= 5; i++ {
		switch s.status.get(uint64(100 + i)) {
		case order.StatusFulfilled:
			fulfilled++
		case order.StatusDroppedStock:
		default:
			s.Failf("unexpected status", "order %d: %s", 100+i, s.status.get(uint64(100+i)))
		}
	}
	s.Equal(2, fulfilled)
}

func (s *FulfillmentTestSuite) TestQueueSaturation() {
	q := worker.NewQueue(2)
	s.Require().NoError(q.TryEnqueue(order.AdmissionTask{OrderID: 1}))
	s.Require().NoError(q.TryEnqueue(order.AdmissionTask{OrderID: 2}))

	err := q.TryEnqueue(order.AdmissionTask{OrderID: 3})
	s.Require().ErrorIs(err, errs.ErrQueueSaturated)
	s.Equal(2, q.Len())
}

func (s *FulfillmentTestSuite) TestEnqueueAfterCloseReportsSaturation() {
	q := worker.NewQueue(2)
	q.Close()

	err := q.TryEnqueue(order.AdmissionTask{OrderID: 1})
	s.Require().ErrorIs(err, errs.ErrQueueSaturated)

	// Close is idempotent.
	q.Close()
}

func (s *FulfillmentTestSuite) TestReleasesUserLockWhenTaskTimesOut() {
	cfg := config.NewTestConfig()
	cfg.Seckill.TaskTimeout = 20 * time.Millisecond
	f := worker.NewFulfillment(s.queue, &stalledLedger{}, s.mutex, s.status, s.clk, cfg)

	s.Require().NoError(s.queue.TryEnqueue(order.AdmissionTask{OrderID: 100, UserID: 1, VoucherID: 7}))
	f.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Require().NoError(f.Stop(ctx))

	s.Equal(order.StatusDroppedError, s.status.get(100))
	s.False(s.store.Has(redis.OrderUserLockPrefix+"1"), "the user lock must be released after a timed-out task")
}
