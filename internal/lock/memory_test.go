package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyAndNormalize(t *testing.T) {
	assert.Equal(t, "area:North", Key("area", "North"))
	assert.Equal(t, []string{"a", "b", "c"}, normalize([]string{"c", "", "a", "b", "a"}))
}

func TestMemoryLocker_NoKeys(t *testing.T) {
	l := NewMemoryLocker(time.Second)
	unlock, err := l.Lock(context.Background())
	require.NoError(t, err)
	unlock()
}

func TestMemoryLocker_MutualExclusion(t *testing.T) {
	l := NewMemoryLocker(0)
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "department:Sales")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				cur := atomic.LoadInt32(&maxInside)
				if n <= cur || atomic.CompareAndSwapInt32(&maxInside, cur, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}

func TestMemoryLocker_BusyAfterWait(t *testing.T) {
	l := NewMemoryLocker(20 * time.Millisecond)
	unlock, err := l.Lock(context.Background(), "manager:Ana")
	require.NoError(t, err)
	defer unlock()

	_, err = l.Lock(context.Background(), "manager:Ana")
	assert.ErrorIs(t, err, ErrBusy)
}

func TestMemoryLocker_PartialAcquireIsReleased(t *testing.T) {
	l := NewMemoryLocker(20 * time.Millisecond)
	unlockB, err := l.Lock(context.Background(), "b")
	require.NoError(t, err)

	_, err = l.Lock(context.Background(), "a", "b")
	require.ErrorIs(t, err, ErrBusy)

	// "a" must be free again.
	unlockA, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)
	unlockA()
	unlockB()
}

func TestMemoryLocker_ContextCanceled(t *testing.T) {
	l := NewMemoryLocker(0)
	unlock, err := l.Lock(context.Background(), "x")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Lock(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryLocker_UnlockIdempotent(t *testing.T) {
	l := NewMemoryLocker(time.Second)
	unlock, err := l.Lock(context.Background(), "x", "y")
	require.NoError(t, err)
	unlock()
	unlock()

	again, err := l.Lock(context.Background(), "y", "x")
	require.NoError(t, err)
	again()
}

func TestMemoryLocker_ParentDeadlineIsNotBusy(t *testing.T) {
	l := NewMemoryLocker(time.Second)
	unlock, err := l.Lock(context.Background(), "area:North")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "area:North")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrBusy)
}
