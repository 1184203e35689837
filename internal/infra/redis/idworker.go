package redis

import (
	"context"

	"flashsale/internal/pkg/clock"

	goredis "github.com/redis/go-redis/v9"
)

// idEpoch is 2022-01-01T00:00:00Z. IDs carry the seconds since this epoch
// in the high 32 bits and a per-day Redis sequence in the low 32 bits, so
// they are strictly increasing per business key across all processes.
const idEpoch int64 = 1640995200

const sequenceBits = 32

// IDWorker hands out globally unique, monotonically increasing ids,
// coordinated through a Redis counter per business key and day.
type IDWorker struct {
	rdb *goredis.Client
	clk clock.Clock
}

func NewIDWorker(rdb *goredis.Client, clk clock.Clock) *IDWorker {
	return &IDWorker{rdb: rdb, clk: clk}
}

func (w *IDWorker) NextID(ctx context.Context, businessKey string) (uint64, error) {
	now := w.clk.Now().UTC()
	timestamp := now.Unix() - idEpoch

	// Daily counter keys keep any single sequence far from 2^32.
	seqKey := IDSequencePrefix + businessKey + ":" + now.Format("20060102")
	seq, err := w.rdb.Incr(ctx, seqKey).Result()
	if err != nil {
		return 0, err
	}

	return uint64(timestamp)<<sequenceBits | uint64(seq), nil
}
