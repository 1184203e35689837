//go:build unit

package voucher_test

import (
	"testing"
	"time"

	"flashsale/internal/domain/voucher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func window() (time.Time, time.Time) {
	begin := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return begin, begin.Add(2 * time.Hour)
}

func TestNewSeckillVoucher(t *testing.T) {
	begin, end := window()

	t.Run("basic success case", func(t *testing.T) {
		v, err := voucher.NewSeckillVoucher(7, 1, "100 yen off", 200, begin, end)
		require.NoError(t, err)
		require.NotNil(t, v)

		assert.Equal(t, int64(7), v.VoucherID())
		assert.Equal(t, int64(1), v.ShopID())
		assert.Equal(t, int32(200), v.Stock())
	})

	t.Run("negative stock", func(t *testing.T) {
		_, err := voucher.NewSeckillVoucher(7, 1, "bad", -1, begin, end)
		require.Error(t, err)
	})

	t.Run("inverted window", func(t *testing.T) {
		_, err := voucher.NewSeckillVoucher(7, 1, "bad", 10, end, begin)
		require.Error(t, err)
	})
}

func TestValidateAdmission(t *testing.T) {
	begin, end := window()
	v, err := voucher.NewSeckillVoucher(7, 1, "100 yen off", 1, begin, end)
	require.NoError(t, err)

	cases := []struct {
		name  string
		now   time.Time
		errIs error
	}{
		{name: "before window", now: begin.Add(-time.Minute), errIs: voucher.ErrSaleNotStarted},
		{name: "at window open", now: begin},
		{name: "inside window", now: begin.Add(time.Hour)},
		{name: "at window close", now: end},
		{name: "after window", now: end.Add(time.Minute), errIs: voucher.ErrSaleEnded},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateAdmission(tc.now)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("out of stock", func(t *testing.T) {
		drained := voucher.Restore(7, 1, "100 yen off", 0, begin, end)
		assert.ErrorIs(t, drained.ValidateAdmission(begin.Add(time.Hour)), voucher.ErrOutOfStock)
	})
}

func TestWindowContains(t *testing.T) {
	begin, end := window()
	v := voucher.Restore(7, 1, "100 yen off", 10, begin, end)

	assert.True(t, v.WindowContains(begin))
	assert.True(t, v.WindowContains(end))
	assert.False(t, v.WindowContains(begin.Add(-time.Second)))
	assert.False(t, v.WindowContains(end.Add(time.Second)))
}
