package statestore

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process Store backed by a TTL cache.
//
// It only upholds the single-winner guarantee within one process, so it suits single-instance
// deployments and tests. Multi-instance deployments need the Redis store.
type Memory struct {
	ttl   time.Duration
	cache *gocache.Cache

	// The cache is itself thread-safe, but lookup and delete must be one atomic step so that two
	// concurrent callbacks with the same token cannot both verify.
	mu sync.Mutex
}

// NewMemory returns a Memory store whose entries expire after the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{ttl: ttl, cache: gocache.New(ttl, ttl)}
}

func (m *Memory) Issue(_ context.Context, provider string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	m.cache.Set(token, provider, m.ttl)
	return token, nil
}

func (m *Memory) VerifyAndConsume(_ context.Context, provider, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Get enforces the TTL lazily, so an expired record never verifies.
	value, found := m.cache.Get(token)
	if !found {
		return false, nil
	}
	m.cache.Delete(token)

	boundProvider, ok := value.(string)
	return ok && boundProvider == provider, nil
}
