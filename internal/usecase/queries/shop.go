package queries

import (
	"context"

	"flashsale/internal/domain/shop"
	"flashsale/internal/infra/cache"
	"flashsale/internal/infra/redis"
	"flashsale/internal/pkg/config"
	"flashsale/internal/pkg/errs"
)

// ShopReadStore loads shops from the source of truth. (nil, nil) means
// confirmed absent.
type ShopReadStore interface {
	FindByID(ctx context.Context, id int64) (*shop.Shop, error)
}

type ShopQueries interface {
	// ShopByID is the plain read path: pass-through caching with a null
	// marker guarding against penetration.
	ShopByID(ctx context.Context, id int64) (*shop.Shop, error)

	// HotShopByID serializes rebuilds of one hot key behind the
	// distributed mutex, for lookups where rebuild cost is high.
	HotShopByID(ctx context.Context, id int64) (*shop.Shop, error)
}

type shopQueriesImpl struct {
	cacheClient *cache.Client
	shops       ShopReadStore
	cfg         config.CacheConfig
}

func NewShopQueries(cacheClient *cache.Client, shops ShopReadStore, cfg config.Config) ShopQueries {
	return &shopQueriesImpl{
		cacheClient: cacheClient,
		shops:       shops,
		cfg:         cfg.Cache,
	}
}

func (q *shopQueriesImpl) ShopByID(ctx context.Context, id int64) (*shop.Shop, error) {
	return q.load(ctx, id, cache.PassThrough)
}

func (q *shopQueriesImpl) HotShopByID(ctx context.Context, id int64) (*shop.Shop, error) {
	return q.load(ctx, id, cache.MutexRecheck)
}

func (q *shopQueriesImpl) load(ctx context.Context, id int64, strategy cache.Strategy) (*shop.Shop, error) {
	s, err := cache.Load(ctx, q.cacheClient, redis.CacheShopPrefix, id, q.cfg.ShopTTL, strategy, q.shops.FindByID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errs.ErrShopNotFound
	}
	return s, nil
}
