// Package lock provides per-file advisory locking around the engine's
// read-mutate-write cycles. Atomic rename alone protects single-file
// integrity; the lock serializes logically conflicting invocations racing on
// the same user's files.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

const retryDelay = 50 * time.Millisecond

// Guard is a held advisory lock.
type Guard struct {
	fl *flock.Flock
}

// Acquire takes an exclusive lock on path, retrying until the timeout
// elapses. The lock file is left in place after release; only the flock
// matters.
func Acquire(ctx context.Context, path string, timeout time.Duration) (*Guard, error) {
	fl := flock.New(path)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, retryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("acquire lock %s: timed out after %v", path, timeout)
	}
	return &Guard{fl: fl}, nil
}

// Release unlocks the guard. Safe on a nil guard.
func (g *Guard) Release() error {
	if g == nil || g.fl == nil {
		return nil
	}
	return g.fl.Unlock()
}
