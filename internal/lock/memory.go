package lock

import (
	"context"
	"sync"
	"time"
)

type memoryLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
	wait  time.Duration
}

// NewMemoryLocker returns an in-process locker. wait bounds how long Lock
// blocks per call; zero means wait for the context only.
func NewMemoryLocker(wait time.Duration) Locker {
	return &memoryLocker{slots: make(map[string]chan struct{}), wait: wait}
}

func (l *memoryLocker) Lock(ctx context.Context, keys ...string) (Unlock, error) {
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

	held := make([]chan struct{}, 0, len(keys))
	release := func() {
		for _, slot := range held {
			<-slot
		}
	}

	for _, key := range keys {
		slot := l.slot(key)
		select {
		case slot <- struct{}{}:
			held = append(held, slot)
		case <-ctx.Done():
			release()
			return nil, waitErr(parent, ctx)
		}
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

func (l *memoryLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.slots[key]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[key] = slot
	}
	return slot
}
