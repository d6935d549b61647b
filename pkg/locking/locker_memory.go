package locking

import (
	"context"
	"sync"
)

// LockerMemory is an in-process LockerInterface keyed by string. It
// serializes mutations per entity id inside a single client session.
type LockerMemory struct {
	pool  sync.Pool
	locks sync.Map
}

// NewLockerMemory builds a new LockerMemory instance
func NewLockerMemory() *LockerMemory {
	locker := LockerMemory{}
	locker.pool = sync.Pool{
		New: func() interface{} {
			return new(sync.Mutex)
		},
	}

	return &locker
}

// Acquire blocks until the lock for key is available
func (l *LockerMemory) Acquire(_ context.Context, key string) (LockInterface, error) {
	lock := l.getLock(key)
	lock.Lock()

	return &LockMemory{
		key: key,
		release: func() {
			lock.Unlock()
		},
	}, nil
}

// TryAcquire takes the lock for key if it is free and returns ErrLockHeld otherwise
func (l *LockerMemory) TryAcquire(key string) (LockInterface, error) {
	lock := l.getLock(key)
	if !lock.TryLock() {
		return nil, ErrLockHeld
	}

	return &LockMemory{
		key: key,
		release: func() {
			lock.Unlock()
		},
	}, nil
}

func (l *LockerMemory) getLock(key string) *sync.Mutex {
	newLock := l.pool.Get()
	lock, stored := l.locks.LoadOrStore(key, newLock)
	if stored {
		l.pool.Put(newLock)
	}
	return lock.(*sync.Mutex)
}

// LockMemory is a memory implementation of a LockInterface
type LockMemory struct {
	key     string
	release func()
}

// Key returns a key
func (l *LockMemory) Key() string {
	return l.key
}

// Release releases a LockMemory
func (l *LockMemory) Release(_ context.Context) error {
	l.release()
	return nil
}
