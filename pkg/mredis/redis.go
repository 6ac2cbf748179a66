package mredis

import (
	"context"

	"github.com/quantora/ledger/pkg/mlog"
	"github.com/redis/go-redis/v9"
)

// RedisConnection manages the cache client.
type RedisConnection struct {
	Address  string
	Password string
	DB       int
	Logger   mlog.Logger

	client    *redis.Client
	Connected bool
}

// GetClient returns the redis client, establishing the connection on
// the first call.
func (rc *RedisConnection) GetClient(ctx context.Context) (*redis.Client, error) {
	if rc.Connected {
		return rc.client, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     rc.Address,
		Password: rc.Password,
		DB:       rc.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		rc.Logger.Errorf("failed to ping redis: %v", err)

		return nil, err
	}

	rc.client = client
	rc.Connected = true

	rc.Logger.Info("Connected to redis")

	return rc.client, nil
}
