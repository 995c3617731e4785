package statestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces the state records in Redis.
const keyPrefix = "authstate:"

// Redis is a Store backed by a shared Redis instance, making state tokens verifiable by any
// worker that serves the callback.
type Redis struct {
	ttl    time.Duration
	client redis.Cmdable
}

// NewRedis returns a Redis store whose entries expire after the given TTL.
func NewRedis(client redis.Cmdable, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{ttl: ttl, client: client}
}

func (r *Redis) Issue(ctx context.Context, provider string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	if err := r.client.Set(ctx, keyPrefix+token, provider, r.ttl).Err(); err != nil {
		return "", fmt.Errorf("error in redis Set call: %w", err)
	}
	return token, nil
}

func (r *Redis) VerifyAndConsume(ctx context.Context, provider, token string) (bool, error) {
	// GETDEL is atomic, so exactly one of any concurrent consumers gets the value. Expiry is
	// enforced by Redis itself through the key TTL.
	value, err := r.client.GetDel(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error in redis GetDel call: %w", err)
	}

	return value == provider, nil
}
