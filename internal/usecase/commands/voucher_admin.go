package commands

import (
	"context"

	"flashsale/internal/domain/voucher"
	"flashsale/internal/infra/cache"
	"flashsale/internal/infra/redis"
	"flashsale/internal/pkg/config"
	"flashsale/internal/pkg/errs"
	"flashsale/internal/usecase/queries"
)

// VoucherReader loads the authoritative voucher record.
type VoucherReader interface {
	FindByID(ctx context.Context, voucherID int64) (*voucher.SeckillVoucher, error)
}

// CampaignPrimer seeds the admission gate keys for a campaign.
type CampaignPrimer interface {
	Prime(ctx context.Context, v *voucher.SeckillVoucher) error
}

type VoucherAdminCommands interface {
	// WarmVoucher pre-warms the logically expiring cache entry and primes
	// the admission gate. Must run before the sale window opens: the
	// logical-expiration read path never falls back to the database.
	WarmVoucher(ctx context.Context, voucherID int64) error
}

type voucherAdminImpl struct {
	vouchers    VoucherReader
	primer      CampaignPrimer
	cacheClient *cache.Client
	cfg         config.CacheConfig
}

func NewVoucherAdminCommands(
	vouchers VoucherReader,
	primer CampaignPrimer,
	cacheClient *cache.Client,
	cfg config.Config,
) VoucherAdminCommands {
	return &voucherAdminImpl{
		vouchers:    vouchers,
		primer:      primer,
		cacheClient: cacheClient,
		cfg:         cfg.Cache,
	}
}

func (c *voucherAdminImpl) WarmVoucher(ctx context.Context, voucherID int64) error {
	v, err := c.vouchers.FindByID(ctx, voucherID)
	if err != nil {
		return err
	}
	if v == nil {
		return errs.ErrVoucherNotFound
	}

	view := queries.NewVoucherView(v)
	if err := cache.SetLogical(ctx, c.cacheClient, redis.CacheVoucherPrefix, voucherID, view, c.cfg.VoucherTTL); err != nil {
		return errs.Mark(err, errs.ErrCacheOperationFailed)
	}

	return c.primer.Prime(ctx, v)
}
