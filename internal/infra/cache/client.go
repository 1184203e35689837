package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"flashsale/internal/infra/redis"
	"flashsale/internal/pkg/clock"
	"flashsale/internal/pkg/config"
)

// Strategy selects how a miss is resolved against the source of truth.
type Strategy int

const (
	// PassThrough fetches on miss without locking. Duplicate concurrent
	// fetches are tolerated for idempotent reads.
	PassThrough Strategy = iota

	// MutexRecheck serializes rebuilds of one hot key behind the
	// distributed mutex; losers back off and retry the whole read.
	MutexRecheck

	// LogicalExpire serves pre-warmed entries without ever blocking on a
	// fetch; expired entries are rebuilt in the background and callers get
	// the stale value meanwhile.
	LogicalExpire
)

func (s Strategy) String() string {
	switch s {
	case PassThrough:
		return "pass_through"
	case MutexRecheck:
		return "mutex_recheck"
	case LogicalExpire:
		return "logical_expire"
	default:
		return "unknown"
	}
}

// ErrLockContended is returned when the mutex-recheck strategy exhausts
// its retry budget without acquiring the rebuild lock.
var ErrLockContended = errors.New("cache: rebuild lock contended")

// Fetch loads one record from the source of truth. Returning (nil, nil)
// means confirmed absent.
type Fetch[T any] func(ctx context.Context, id int64) (*T, error)

type Client struct {
	store redis.Store
	mutex redis.Mutex
	clock clock.Clock
	pool  *rebuildPool
	cfg   config.CacheConfig
}

func NewClient(store redis.Store, mutex redis.Mutex, clk clock.Clock, cfg config.CacheConfig) *Client {
	return &Client{
		store: store,
		mutex: mutex,
		clock: clk,
		pool:  newRebuildPool(cfg.RebuildWorkers),
		cfg:   cfg,
	}
}

// Close drains the rebuild pool. In-flight rebuild jobs run to completion.
func (c *Client) Close() {
	c.pool.Stop()
}

// Load resolves one record through the cache with the chosen strategy.
// A nil result with nil error means the record does not exist.
func Load[T any](ctx context.Context, c *Client, prefix string, id int64, ttl time.Duration, strategy Strategy, fetch Fetch[T]) (*T, error) {
	switch strategy {
	case MutexRecheck:
		return loadMutexRecheck(ctx, c, prefix, id, ttl, fetch)
	case LogicalExpire:
		return loadLogicalExpire(ctx, c, prefix, id, ttl, fetch)
	default:
		return loadPassThrough(ctx, c, prefix, id, ttl, fetch)
	}
}

// SetLogical writes a logically expiring entry, used for pre-warming
// campaign keys. No store TTL: liveness is carried inside the entry.
func SetLogical[T any](ctx context.Context, c *Client, prefix string, id int64, value *T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	entry := Entry{Data: data, ExpireAt: c.clock.Now().Add(ttl)}
	buf, err := json.Marshal(&entry)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, cacheKey(prefix, id), buf, 0)
}

type lookupState int

const (
	lookupMiss lookupState = iota
	lookupHit
	lookupNull
)

func probe[T any](ctx context.Context, c *Client, key string) (*T, lookupState, error) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return nil, lookupMiss, nil
		}
		return nil, lookupMiss, err
	}
	if isNullMarker(data) {
		return nil, lookupNull, nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, lookupMiss, err
	}
	return &value, lookupHit, nil
}

func loadPassThrough[T any](ctx context.Context, c *Client, prefix string, id int64, ttl time.Duration, fetch Fetch[T]) (*T, error) {
	key := cacheKey(prefix, id)

	value, state, err := probe[T](ctx, c, key)
	if err != nil {
		return nil, err
	}
	switch state {
	case lookupHit:
		Hits.WithLabelValues(PassThrough.String()).Inc()
		return value, nil
	case lookupNull:
		NullHits.Inc()
		return nil, nil
	}

	Misses.WithLabelValues(PassThrough.String()).Inc()
	fetched, err := fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if fetched == nil {
		// Penetration guard: remember the confirmed miss briefly.
		if err := c.store.Set(ctx, key, nullMarker, c.cfg.NullTTL); err != nil {
			slog.Warn("failed to write null marker", "key", key, "error", err)
		}
		return nil, nil
	}

	if err := c.writeValue(ctx, key, fetched, ttl); err != nil {
		slog.Warn("failed to fill cache", "key", key, "error", err)
	}
	return fetched, nil
}

func loadMutexRecheck[T any](ctx context.Context, c *Client, prefix string, id int64, ttl time.Duration, fetch Fetch[T]) (*T, error) {
	key := cacheKey(prefix, id)

	for attempt := 0; attempt <= c.cfg.RetryAttempts; attempt++ {
		value, state, err := probe[T](ctx, c, key)
		if err != nil {
			return nil, err
		}
		switch state {
		case lookupHit:
			Hits.WithLabelValues(MutexRecheck.String()).Inc()
			return value, nil
		case lookupNull:
			NullHits.Inc()
			return nil, nil
		}

		lock := c.mutex.NewLock(prefix + strconv.FormatInt(id, 10))
		acquired, err := lock.TryLock(ctx, c.cfg.MutexTTL)
		if err != nil {
			return nil, err
		}
		if !acquired {
			// Another holder is rebuilding; back off and re-read.
			if err := sleepCtx(ctx, c.backoffFor(attempt)); err != nil {
				return nil, err
			}
			continue
		}

		Misses.WithLabelValues(MutexRecheck.String()).Inc()
		return rebuildUnderLock(ctx, c, lock, key, id, ttl, fetch)
	}

	return nil, ErrLockContended
}

func rebuildUnderLock[T any](ctx context.Context, c *Client, lock redis.Locker, key string, id int64, ttl time.Duration, fetch Fetch[T]) (*T, error) {
	// Release must survive caller cancellation.
	defer func() {
		if err := lock.Unlock(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("failed to release rebuild lock", "key", key, "error", err)
		}
	}()

	// Another holder may have filled the key between probe and acquire.
	value, state, err := probe[T](ctx, c, key)
	if err != nil {
		return nil, err
	}
	switch state {
	case lookupHit:
		return value, nil
	case lookupNull:
		return nil, nil
	}

	fetched, err := fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if fetched == nil {
		if err := c.store.Set(ctx, key, nullMarker, c.cfg.NullTTL); err != nil {
			slog.Warn("failed to write null marker", "key", key, "error", err)
		}
		return nil, nil
	}

	if err := c.writeValue(ctx, key, fetched, ttl); err != nil {
		slog.Warn("failed to fill cache", "key", key, "error", err)
	}
	return fetched, nil
}

func loadLogicalExpire[T any](ctx context.Context, c *Client, prefix string, id int64, ttl time.Duration, fetch Fetch[T]) (*T, error) {
	key := cacheKey(prefix, id)

	entry, value, err := probeLogical[T](ctx, c, key)
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			// Logical expiration assumes eager population: a true miss is
			// "out of campaign scope", never "not yet loaded".
			Misses.WithLabelValues(LogicalExpire.String()).Inc()
			return nil, nil
		}
		return nil, err
	}

	now := c.clock.Now()
	if !entry.Expired(now) {
		Hits.WithLabelValues(LogicalExpire.String()).Inc()
		return value, nil
	}

	lock := c.mutex.NewLock(prefix + strconv.FormatInt(id, 10))
	acquired, err := lock.TryLock(ctx, c.cfg.MutexTTL)
	if err != nil || !acquired {
		// Staleness is the accepted cost of availability.
		StaleReads.Inc()
		return value, nil
	}

	// Another holder may have refreshed between probe and acquire.
	if freshEntry, freshValue, probeErr := probeLogical[T](ctx, c, key); probeErr == nil && !freshEntry.Expired(now) {
		if unlockErr := lock.Unlock(context.WithoutCancel(ctx)); unlockErr != nil {
			slog.Warn("failed to release rebuild lock", "key", key, "error", unlockErr)
		}
		Hits.WithLabelValues(LogicalExpire.String()).Inc()
		return freshValue, nil
	}

	submitted := c.pool.TrySubmit(func() {
		bgctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		defer func() {
			if unlockErr := lock.Unlock(bgctx); unlockErr != nil {
				slog.Warn("failed to release rebuild lock", "key", key, "error", unlockErr)
			}
		}()

		fetched, fetchErr := fetch(bgctx, id)
		if fetchErr != nil {
			Rebuilds.WithLabelValues("error").Inc()
			slog.Error("cache rebuild failed", "key", key, "error", fetchErr)
			return
		}
		if fetched == nil {
			// The record left campaign scope; drop the stale entry.
			if delErr := c.store.Delete(bgctx, key); delErr != nil {
				slog.Warn("failed to drop stale entry", "key", key, "error", delErr)
			}
			Rebuilds.WithLabelValues("evicted").Inc()
			return
		}
		if setErr := SetLogical(bgctx, c, prefix, id, fetched, ttl); setErr != nil {
			Rebuilds.WithLabelValues("error").Inc()
			slog.Error("cache rebuild write failed", "key", key, "error", setErr)
			return
		}
		Rebuilds.WithLabelValues("success").Inc()
	})
	if !submitted {
		if unlockErr := lock.Unlock(context.WithoutCancel(ctx)); unlockErr != nil {
			slog.Warn("failed to release rebuild lock", "key", key, "error", unlockErr)
		}
		slog.Warn("rebuild pool saturated, serving stale", "key", key)
	}

	StaleReads.Inc()
	return value, nil
}

func probeLogical[T any](ctx context.Context, c *Client, key string) (*Entry, *T, error) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, nil, err
	}
	var value T
	if err := json.Unmarshal(entry.Data, &value); err != nil {
		return nil, nil, err
	}
	return &entry, &value, nil
}

func (c *Client) writeValue(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, key, data, jitterTTL(ttl))
}

// backoffFor grows exponentially from the configured base with jitter,
// capped so a waiter never outlives the natural lock TTL.
func (c *Client) backoffFor(attempt int) time.Duration {
	backoff := c.cfg.RetryBackoff << attempt
	if backoff > c.cfg.MutexTTL {
		backoff = c.cfg.MutexTTL
	}
	return backoff + time.Duration(rand.Int63n(int64(c.cfg.RetryBackoff)+1))
}

// jitterTTL spreads hard TTLs by ±10% so hot keys written together do not
// expire together.
func jitterTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttl
	}
	spread := int64(ttl) / 10
	return ttl + time.Duration(rand.Int63n(2*spread+1)-spread)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func cacheKey(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}
