package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func ConnectRedis(ctx context.Context, addr, password string, db int, logger *zap.SugaredLogger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	err := retry(ctx, func() error {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return rdb.Ping(pctx).Err()
	}, logger, "Redis")
	if err != nil {
		logger.Errorf("Redis ping failed: %v", err)
		_ = rdb.Close()
		return nil, err
	}

	logger.Info("Redis connected successfully")
	return rdb, nil
}
