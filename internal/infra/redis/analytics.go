package redis

import (
	"context"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// VoucherSales is one leaderboard row.
type VoucherSales struct {
	VoucherID int64
	Admitted  int64
}

// Analytics records peripheral admission signals: a sorted-set sales
// leaderboard and a per-user daily activity bitmap. All writes are
// best-effort; failures never affect the admission verdict.
type Analytics struct {
	rdb *goredis.Client
}

func NewAnalytics(rdb *goredis.Client) *Analytics {
	return &Analytics{rdb: rdb}
}

func (a *Analytics) RecordAdmission(ctx context.Context, voucherID, userID int64, now time.Time) error {
	member := strconv.FormatInt(voucherID, 10)
	activeKey := SeckillActivePrefix + strconv.FormatInt(userID, 10) + ":" + now.Format("200601")

	pipe := a.rdb.Pipeline()
	pipe.ZIncrBy(ctx, SeckillSalesKey, 1, member)
	// Bit per day-of-month marks the user active, sign-in bitmap style.
	pipe.SetBit(ctx, activeKey, int64(now.Day()-1), 1)
	_, err := pipe.Exec(ctx)
	return err
}

func (a *Analytics) TopSellers(ctx context.Context, n int64) ([]VoucherSales, error) {
	rows, err := a.rdb.ZRevRangeWithScores(ctx, SeckillSalesKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	sales := make([]VoucherSales, 0, len(rows))
	for _, row := range rows {
		member, ok := row.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		sales = append(sales, VoucherSales{VoucherID: id, Admitted: int64(row.Score)})
	}
	return sales, nil
}
