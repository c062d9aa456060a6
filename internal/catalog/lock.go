package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it still carries our token, so an
// expired lock re-acquired by another process is never removed by us.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RedisLock is a single-key Redis lock with an owner token and expiry.
type RedisLock struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewRedisLock returns a lock stored under "<prefix>:lock:catalog-seed".
// A nil client yields a nil lock, which callers treat as "no lock".
func NewRedisLock(rdb *redis.Client, prefix string, ttl time.Duration) *RedisLock {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLock{rdb: rdb, key: prefix + ":lock:catalog-seed", ttl: ttl}
}

// Key returns the Redis key holding the lock.
func (l *RedisLock) Key() string { return l.key }

// Acquire sets the lock key if absent.  It fails with ErrSeedInProgress when
// the key is already held.
func (l *RedisLock) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire seed lock: %w", err)
	}
	if !ok {
		return nil, ErrSeedInProgress
	}
	return func() {
		_ = releaseScript.Run(context.Background(), l.rdb, []string{l.key}, token).Err()
	}, nil
}
