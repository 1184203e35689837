//go:build unit

package cache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"flashsale/internal/infra/cache"
	"flashsale/internal/infra/redis"
	"flashsale/internal/infra/redis/redistest"
	"flashsale/internal/pkg/clock"
	"flashsale/internal/pkg/config"

	"github.com/stretchr/testify/suite"
)

type record struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CacheClientTestSuite struct {
	suite.Suite
	clk    *clock.MockClock
	store  *redistest.Store
	mutex  redis.Mutex
	client *cache.Client
}

func (s *CacheClientTestSuite) SetupTest() {
	s.clk = clock.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s.store = redistest.NewStore(s.clk)
	s.mutex = redis.NewMutex(s.store)
	s.client = cache.NewClient(s.store, s.mutex, s.clk, config.CacheConfig{
		ShopTTL:        30 * time.Minute,
		VoucherTTL:     20 * time.Minute,
		NullTTL:        2 * time.Minute,
		MutexTTL:       50 * time.Millisecond,
		RebuildWorkers: 2,
		RetryAttempts:  8,
		RetryBackoff:   time.Millisecond,
	})
}

func (s *CacheClientTestSuite) TearDownTest() {
	s.client.Close()
}

func TestCacheClientSuite(t *testing.T) {
	suite.Run(t, new(CacheClientTestSuite))
}

func (s *CacheClientTestSuite) load(strategy cache.Strategy, fetch cache.Fetch[record]) (*record, error) {
	return cache.Load(context.Background(), s.client, "cache:test:", 1, 10*time.Minute, strategy, fetch)
}

func countingFetch(calls *atomic.Int64, result *record, err error) cache.Fetch[record] {
	return func(context.Context, int64) (*record, error) {
		calls.Add(1)
		return result, err
	}
}

func (s *CacheClientTestSuite) TestPassThroughFillsOnMiss() {
	var calls atomic.Int64
	fetch := countingFetch(&calls, &record{ID: 1, Name: "cafe"}, nil)

	got, err := s.load(cache.PassThrough, fetch)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("cafe", got.Name)
	s.Equal(int64(1), calls.Load())

	got, err = s.load(cache.PassThrough, fetch)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("cafe", got.Name)
	s.Equal(int64(1), calls.Load(), "second read must be served from cache")
}

func (s *CacheClientTestSuite) TestPassThroughNullMarkerStopsPenetration() {
	var calls atomic.Int64
	fetch := countingFetch(&calls, nil, nil)

	got, err := s.load(cache.PassThrough, fetch)
	s.Require().NoError(err)
	s.Nil(got)
	s.Equal(int64(1), calls.Load())

	got, err = s.load(cache.PassThrough, fetch)
	s.Require().NoError(err)
	s.Nil(got)
	s.Equal(int64(1), calls.Load(), "confirmed miss must be remembered")
}

func (s *CacheClientTestSuite) TestPassThroughNullMarkerExpires() {
	var calls atomic.Int64
	fetch := countingFetch(&calls, nil, nil)

	_, err := s.load(cache.PassThrough, fetch)
	s.Require().NoError(err)

	s.clk.Add(3 * time.Minute)

	_, err = s.load(cache.PassThrough, fetch)
	s.Require().NoError(err)
	s.Equal(int64(2), calls.Load(), "expired marker must re-consult the source")
}

func (s *CacheClientTestSuite) TestMutexRecheckSingleFetchUnderContention() {
	var calls atomic.Int64
	fetch := func(context.Context, int64) (*record, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond)
		return &record{ID: 1, Name: "hot"}, nil
	}

	const readers = 16
	var wg sync.WaitGroup
	results := make([]*record, readers)
	errs := make([]error, readers)

	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.load(cache.MutexRecheck, fetch)
		}(i)
	}
	wg.Wait()

	for i := 0; i < readers; i++ {
		s.Require().NoError(errs[i])
		s.Require().NotNil(results[i])
		s.Equal("hot", results[i].Name)
	}
	s.Equal(int64(1), calls.Load(), "only the lock winner may rebuild")
}

func (s *CacheClientTestSuite) TestMutexRecheckWritesNullMarker() {
	var calls atomic.Int64
	fetch := countingFetch(&calls, nil, nil)

	got, err := s.load(cache.MutexRecheck, fetch)
	s.Require().NoError(err)
	s.Nil(got)

	got, err = s.load(cache.MutexRecheck, fetch)
	s.Require().NoError(err)
	s.Nil(got)
	s.Equal(int64(1), calls.Load())
}

func (s *CacheClientTestSuite) TestLogicalExpireMissMeansAbsent() {
	var calls atomic.Int64
	fetch := countingFetch(&calls, &record{ID: 1, Name: "warm"}, nil)

	got, err := s.load(cache.LogicalExpire, fetch)
	s.Require().NoError(err)
	s.Nil(got)
	s.Equal(int64(0), calls.Load(), "logical expiration never fetches on a true miss")
}

func (s *CacheClientTestSuite) TestLogicalExpireServesFresh() {
	err := cache.SetLogical(context.Background(), s.client, "cache:test:", 1, &record{ID: 1, Name: "warm"}, 10*time.Minute)
	s.Require().NoError(err)

	var calls atomic.Int64
	got, err := s.load(cache.LogicalExpire, countingFetch(&calls, nil, nil))
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("warm", got.Name)
	s.Equal(int64(0), calls.Load())
}

func (s *CacheClientTestSuite) TestLogicalExpireServesStaleAndRebuilds() {
	err := cache.SetLogical(context.Background(), s.client, "cache:test:", 1, &record{ID: 1, Name: "old"}, 10*time.Minute)
	s.Require().NoError(err)

	s.clk.Add(11 * time.Minute)

	var calls atomic.Int64
	got, err := s.load(cache.LogicalExpire, countingFetch(&calls, &record{ID: 1, Name: "new"}, nil))
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("old", got.Name, "expired entries are served stale, not blocked on")

	// Close drains the rebuild pool, so the refresh is visible afterwards.
	s.client.Close()
	s.Equal(int64(1), calls.Load())

	got, err = s.load(cache.LogicalExpire, countingFetch(&calls, nil, nil))
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("new", got.Name)
	s.Equal(int64(1), calls.Load())
}

func (s *CacheClientTestSuite) TestLogicalExpireStaleWhenLockHeld() {
	err := cache.SetLogical(context.Background(), s.client, "cache:test:", 1, &record{ID: 1, Name: "old"}, 10*time.Minute)
	s.Require().NoError(err)

	s.clk.Add(11 * time.Minute)

	blocker := s.mutex.NewLock("cache:test:1")
	ok, err := blocker.TryLock(context.Background(), time.Minute)
	s.Require().NoError(err)
	s.Require().True(ok)

	var calls atomic.Int64
	got, err := s.load(cache.LogicalExpire, countingFetch(&calls, &record{ID: 1, Name: "new"}, nil))
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("old", got.Name)
	s.Equal(int64(0), calls.Load(), "losing the rebuild lock must not trigger a fetch")
}

func (s *CacheClientTestSuite) TestLogicalExpireEvictsWhenRecordGone() {
	err := cache.SetLogical(context.Background(), s.client, "cache:test:", 1, &record{ID: 1, Name: "old"}, 10*time.Minute)
	s.Require().NoError(err)

	s.clk.Add(11 * time.Minute)

	var calls atomic.Int64
	got, err := s.load(cache.LogicalExpire, countingFetch(&calls, nil, nil))
	s.Require().NoError(err)
	s.Require().NotNil(got, "the last stale read still serves the departed record")

	s.client.Close()
	s.Equal(int64(1), calls.Load())
	s.False(s.store.Has("cache:test:1"), "departed records must be evicted by the rebuild")
}
