package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "personnel:lock:"
	retryInterval  = 25 * time.Millisecond
)

// releaseScript deletes the key only when it still holds our token, so an
// expired lock re-acquired by someone else is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("del", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisLocker returns a locker shared by every instance using the same Redis.
func NewRedisLocker(client redis.UniversalClient, ttl, wait time.Duration) Locker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &redisLocker{client: client, ttl: ttl, wait: wait}
}

func (l *redisLocker) Lock(ctx context.Context, keys ...string) (Unlock, error) {
	keys = normalize(keys)
	if len(keys) == 0 {
		return noop, nil
	}

	parent := ctx
	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	token := uuid.NewString()
	held := make([]string, 0, len(keys))
	release := func() {
		// Release on a fresh context: the request context may already be done.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		for _, key := range held {
			_ = releaseScript.Run(rctx, l.client, []string{key}, token).Err()
		}
	}

	for _, key := range keys {
		fullKey := redisKeyPrefix + key
		if err := l.acquire(parent, ctx, fullKey, token); err != nil {
			release()
			return nil, err
		}
		held = append(held, fullKey)
	}

	return release, nil
}

func (l *redisLocker) acquire(parent, ctx context.Context, key, token string) error {
	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return waitErr(parent, ctx)
			}
			return fmt.Errorf("acquire %s: %w", key, err)
		}
		if ok {
			return nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return waitErr(parent, ctx)
		}
	}
}
