package contracts

import (
	"context"
	"time"
)

// LockerService is a Redis-backed mutual exclusion primitive. The reconciler
// uses it as a leader lock so only one worker consumes the orphan queue.
type LockerService interface {
	// TryLock attempts to acquire the lock and returns the ownership token
	// on success. It never blocks.
	TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error)
	// Unlock releases the lock only if lockValue still owns it.
	Unlock(ctx context.Context, key, lockValue string) error
	// Refresh extends the TTL of a lock if owned by lockValue.
	Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error
}
