package redis

import (
	"context"
	"fmt"
	"time"

	"flashsale/internal/pkg/config"

	goredis "github.com/redis/go-redis/v9"
)

func Connect(cfg config.RedisConfig) (*goredis.Client, func(), error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	cleanup := func() {
		_ = rdb.Close()
	}

	return rdb, cleanup, nil
}
