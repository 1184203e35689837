package queries

import (
	"context"
	"time"

	"flashsale/internal/domain/voucher"
	"flashsale/internal/infra/cache"
	"flashsale/internal/infra/redis"
	"flashsale/internal/pkg/config"
	"flashsale/internal/pkg/errs"
)

// VoucherView is the cached, serializable shape of a campaign voucher.
type VoucherView struct {
	VoucherID int64     `json:"voucher_id"`
	ShopID    int64     `json:"shop_id"`
	Title     string    `json:"title"`
	Stock     int32     `json:"stock"`
	BeginTime time.Time `json:"begin_time"`
	EndTime   time.Time `json:"end_time"`
}

func NewVoucherView(v *voucher.SeckillVoucher) *VoucherView {
	return &VoucherView{
		VoucherID: v.VoucherID(),
		ShopID:    v.ShopID(),
		Title:     v.Title(),
		Stock:     v.Stock(),
		BeginTime: v.BeginTime(),
		EndTime:   v.EndTime(),
	}
}

// VoucherReadStore loads vouchers from the source of truth.
type VoucherReadStore interface {
	FindByID(ctx context.Context, voucherID int64) (*voucher.SeckillVoucher, error)
}

type VoucherQueries interface {
	// VoucherByID serves campaign vouchers with the logical-expiration
	// strategy: pre-warmed keys only, stale reads over blocking, a true
	// miss means "not in campaign scope".
	VoucherByID(ctx context.Context, voucherID int64) (*VoucherView, error)
}

type voucherQueriesImpl struct {
	cacheClient *cache.Client
	vouchers    VoucherReadStore
	cfg         config.CacheConfig
}

func NewVoucherQueries(cacheClient *cache.Client, vouchers VoucherReadStore, cfg config.Config) VoucherQueries {
	return &voucherQueriesImpl{
		cacheClient: cacheClient,
		vouchers:    vouchers,
		cfg:         cfg.Cache,
	}
}

func (q *voucherQueriesImpl) VoucherByID(ctx context.Context, voucherID int64) (*VoucherView, error) {
	view, err := cache.Load(ctx, q.cacheClient, redis.CacheVoucherPrefix, voucherID, q.cfg.VoucherTTL, cache.LogicalExpire, q.fetchView)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, errs.ErrVoucherNotFound
	}
	return view, nil
}

func (q *voucherQueriesImpl) fetchView(ctx context.Context, voucherID int64) (*VoucherView, error) {
	v, err := q.vouchers.FindByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return NewVoucherView(v), nil
}
