package jobs

import (
	"context"
	"time"
)

// lockStore is the slice of the redis client the lock needs.
type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	LockKey(name string) string
}

// RedisLock implements Locker on top of SETNX with a TTL safety net, so a
// crashed worker cannot hold a lock forever.
type RedisLock struct {
	store lockStore
}

// NewRedisLock wraps the redis client as a Locker.
func NewRedisLock(store lockStore) *RedisLock {
	return &RedisLock{store: store}
}

func (l *RedisLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return l.store.SetNX(ctx, l.store.LockKey(name), time.Now().UTC().Format(time.RFC3339), ttl)
}

func (l *RedisLock) Release(ctx context.Context, name string) error {
	return l.store.Del(ctx, l.store.LockKey(name))
}
