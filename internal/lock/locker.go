// Package lock serializes check-then-write sequences that touch the same
// referenced names.
package lock

import (
	"context"
	"errors"
	"sort"

	"github.com/samber/lo"
)

// ErrBusy is returned when a key could not be acquired within the wait bound.
var ErrBusy = errors.New("lock busy")

// Unlock releases every key acquired by a Lock call.
type Unlock func()

// Locker acquires a set of keys atomically from the caller's point of view:
// either all keys are held on return or none are.
type Locker interface {
	Lock(ctx context.Context, keys ...string) (Unlock, error)
}

// Key builds a lock key for a named entity, e.g. Key("area", "North").
func Key(kind, name string) string {
	return kind + ":" + name
}

// normalize dedupes and sorts keys so concurrent callers acquire in the same order.
func normalize(keys []string) []string {
	out := lo.Uniq(lo.Compact(keys))
	sort.Strings(out)
	return out
}

func noop() {}

// waitErr reports why waiting on ctx stopped. Only the locker's own wait
// bound yields ErrBusy; a done parent context surfaces its own error.
func waitErr(parent, ctx context.Context) error {
	if err := parent.Err(); err != nil {
		return err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrBusy
	}
	return ctx.Err()
}
