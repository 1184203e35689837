//go:build integration

package redis_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"flashsale/internal/domain/voucher"
	"flashsale/internal/infra/redis"
	"flashsale/internal/pkg/clock"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *goredis.Client {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb := goredis.NewClient(&goredis.Options{Addr: host + ":" + port.Port()})
	require.NoError(t, rdb.Ping(ctx).Err())

	t.Cleanup(func() {
		rdb.Close()
		container.Terminate(context.Background())
	})

	return rdb
}

func primeVoucher(t *testing.T, gate *redis.ScriptGate, stock int32, begin, end time.Time) {
	t.Helper()
	v, err := voucher.NewSeckillVoucher(7, 1, "100 yen off", stock, begin, end)
	require.NoError(t, err)
	require.NoError(t, gate.Prime(context.Background(), v))
}

func TestAdmissionScript(t *testing.T) {
	rdb := setupRedis(t)
	gate := redis.NewScriptGate(rdb)
	ctx := context.Background()

	begin := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	primeVoucher(t, gate, 2, begin, end)

	t.Run("window gating", func(t *testing.T) {
		verdict, err := gate.Attempt(ctx, 7, 1, begin.Add(-time.Minute).Unix())
		require.NoError(t, err)
		require.Equal(t, redis.VerdictNotStarted, verdict)

		verdict, err = gate.Attempt(ctx, 7, 1, end.Add(time.Minute).Unix())
		require.NoError(t, err)
		require.Equal(t, redis.VerdictEnded, verdict)
	})

	t.Run("admit then duplicate", func(t *testing.T) {
		now := time.Now().Unix()

		verdict, err := gate.Attempt(ctx, 7, 1, now)
		require.NoError(t, err)
		require.Equal(t, redis.VerdictAdmitted, verdict)

		verdict, err = gate.Attempt(ctx, 7, 1, now)
		require.NoError(t, err)
		require.Equal(t, redis.VerdictDuplicateOrder, verdict)
	})

	t.Run("stock exhaustion", func(t *testing.T) {
		now := time.Now().Unix()

		verdict, err := gate.Attempt(ctx, 7, 2, now)
		require.NoError(t, err)
		require.Equal(t, redis.VerdictAdmitted, verdict)

		verdict, err = gate.Attempt(ctx, 7, 3, now)
		require.NoError(t, err)
		require.Equal(t, redis.VerdictStockExhausted, verdict)
	})

	t.Run("unprimed voucher is not started", func(t *testing.T) {
		verdict, err := gate.Attempt(ctx, 999, 1, time.Now().Unix())
		require.NoError(t, err)
		require.Equal(t, redis.VerdictNotStarted, verdict)
	})
}

func TestAdmissionScriptNeverOversells(t *testing.T) {
	rdb := setupRedis(t)
	gate := redis.NewScriptGate(rdb)
	ctx := context.Background()

	const stock = 10
	const contenders = 100
	primeVoucher(t, gate, stock, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))

	var wg sync.WaitGroup
	verdicts := make([]redis.Verdict, contenders)
	now := time.Now().Unix()

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := gate.Attempt(ctx, 7, int64(i+1), now)
			require.NoError(t, err)
			verdicts[i] = v
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, v := range verdicts {
		if v == redis.VerdictAdmitted {
			admitted++
		}
	}
	require.Equal(t, stock, admitted)

	remaining, err := rdb.Get(ctx, redis.SeckillStockPrefix+"7").Int64()
	require.NoError(t, err)
	require.Equal(t, int64(0), remaining)
}

func TestLockOwnershipAgainstRealStore(t *testing.T) {
	rdb := setupRedis(t)
	store := redis.NewStore(rdb)
	mutex := redis.NewMutex(store)
	ctx := context.Background()

	first := mutex.NewLock("shop:1")
	ok, err := first.TryLock(ctx, 200*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	second := mutex.NewLock("shop:1")
	ok, err = second.TryLock(ctx, 200*time.Millisecond)
	require.NoError(t, err)
	require.False(t, ok)

	time.Sleep(300 * time.Millisecond)

	ok, err = second.TryLock(ctx, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	// The expired first holder must not be able to free the new lock.
	require.NoError(t, first.Unlock(ctx))

	third := mutex.NewLock("shop:1")
	ok, err = third.TryLock(ctx, time.Minute)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIDWorkerUniqueness(t *testing.T) {
	rdb := setupRedis(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	worker := redis.NewIDWorker(rdb, clock.NewMockClock(now))
	ctx := context.Background()

	const n = 500
	seen := make(map[uint64]struct{}, n)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := worker.NextID(ctx, "order")
			require.NoError(t, err)
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, seen, n)

	// High 32 bits carry the seconds since the 2022-01-01 epoch.
	wantTimestamp := uint64(now.Unix() - 1640995200)
	for id := range seen {
		require.Equal(t, wantTimestamp, id>>32)
	}
}
