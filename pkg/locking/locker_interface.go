package locking

import (
	"context"
	"errors"
)

// ErrLockHeld is returned by TryAcquire when the key is already locked
var ErrLockHeld = errors.New("lock already held")

// LockerInterface represents a Locker
type LockerInterface interface {
	Acquire(ctx context.Context, key string) (LockInterface, error)
	TryAcquire(key string) (LockInterface, error)
}

// LockInterface represents a Lock
type LockInterface interface {
	Key() string
	Release(ctx context.Context) error
}
