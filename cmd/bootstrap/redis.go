package bootstrap

import (
	"context"

	"flashsale/internal/infra/cache"
	"flashsale/internal/infra/redis"
	"flashsale/internal/pkg/clock"
	"flashsale/internal/pkg/config"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedis,
		redis.NewStore,
		redis.NewMutex,
		NewCacheClient,
	),
)

func NewRedis(lc fx.Lifecycle, cfg config.Config) (*goredis.Client, error) {
	rdb, cleanup, err := redis.Connect(cfg.Redis)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return rdb, nil
}

func NewCacheClient(lc fx.Lifecycle, store redis.Store, mutex redis.Mutex, clk clock.Clock, cfg config.Config) *cache.Client {
	client := cache.NewClient(store, mutex, clk, cfg.Cache)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			client.Close()
			return nil
		},
	})

	return client
}
