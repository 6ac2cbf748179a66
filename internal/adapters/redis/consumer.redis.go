package redis

import (
	"context"
	"time"

	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/mopentelemetry"
	"github.com/quantora/ledger/pkg/mredis"
)

// RedisRepository provides an interface for cache operations and the
// relay's advisory lease.
//
//go:generate mockgen --destination=redis.mock.go --package=redis . RedisRepository
type RedisRepository interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	AcquireLease(ctx context.Context, key, holder string, ttl time.Duration) (bool, error)
	ReleaseLease(ctx context.Context, key string) error
}

// RedisConsumerRepository is a Redis implementation of RedisRepository.
type RedisConsumerRepository struct {
	connection *mredis.RedisConnection
}

// NewConsumerRedis returns a new instance of RedisConsumerRepository
// using the given Redis connection.
func NewConsumerRedis(rc *mredis.RedisConnection) *RedisConsumerRepository {
	return &RedisConsumerRepository{connection: rc}
}

// Set writes a key with the given TTL.
func (r *RedisConsumerRepository) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "redis.set")
	defer span.End()

	client, err := r.connection.GetClient(ctx)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get redis client", err)

		return err
	}

	if err := client.Set(ctx, key, value, ttl).Err(); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to set key", err)

		return err
	}

	return nil
}

// Get reads a key; empty string when absent.
func (r *RedisConsumerRepository) Get(ctx context.Context, key string) (string, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "redis.get")
	defer span.End()

	client, err := r.connection.GetClient(ctx)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get redis client", err)

		return "", err
	}

	value, err := client.Get(ctx, key).Result()
	if err != nil {
		return "", nil
	}

	return value, nil
}

// AcquireLease takes the advisory relay lease with SET NX PX. Returns
// false when another holder owns it.
func (r *RedisConsumerRepository) AcquireLease(ctx context.Context, key, holder string, ttl time.Duration) (bool, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "redis.acquire_lease")
	defer span.End()

	client, err := r.connection.GetClient(ctx)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get redis client", err)

		return false, err
	}

	acquired, err := client.SetNX(ctx, key, holder, ttl).Result()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to acquire lease", err)

		return false, err
	}

	return acquired, nil
}

// ReleaseLease drops the advisory relay lease.
func (r *RedisConsumerRepository) ReleaseLease(ctx context.Context, key string) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "redis.release_lease")
	defer span.End()

	client, err := r.connection.GetClient(ctx)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get redis client", err)

		return err
	}

	return client.Del(ctx, key).Err()
}
