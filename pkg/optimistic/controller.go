package optimistic

import (
	"context"
	"errors"
	"fmt"

	"github.com/collabhub-app/collabhub-client/pkg/locking"
	"github.com/collabhub-app/collabhub-client/pkg/logger"
)

// ErrMutationInFlight is returned when a second mutation is issued against
// an entity whose previous mutation has not settled yet
var ErrMutationInFlight = errors.New("a mutation for this entity is still in flight")

// ErrEntryNotFound is returned when the addressed entry is not in the collection
var ErrEntryNotFound = errors.New("entry not found in collection")

// RemoteCreateFunc performs the create round-trip and returns the
// server-assigned id together with the server's view of the value
type RemoteCreateFunc[T any] func(ctx context.Context) (string, T, error)

// RemoteCallFunc performs an update or delete round-trip
type RemoteCallFunc func(ctx context.Context) error

// Controller applies mutations to a Collection locally before the remote
// call settles and reconciles afterwards: confirmed values replace the
// provisional ones, failures restore the exact prior state. Each entity id
// admits at most one in-flight mutation; overlapping ones are rejected with
// ErrMutationInFlight instead of being queued.
type Controller[T any] struct {
	Collection *Collection[T]
	Locker     locking.LockerInterface
	Logger     logger.Interface
}

// NewController builds a Controller around a fresh Collection
func NewController[T any](logging logger.Interface) *Controller[T] {
	return &Controller[T]{
		Collection: NewCollection[T](),
		Locker:     locking.NewLockerMemory(),
		Logger:     logging,
	}
}

// Create inserts the provisional value synchronously, then runs remoteCreate.
// Success replaces the pending entry with the confirmed one under its server
// id; failure removes it again before the error reaches the caller, so the
// collection never keeps a pending entry that will not resolve.
func (c *Controller[T]) Create(ctx context.Context, localID string, provisional T, remoteCreate RemoteCreateFunc[T]) (T, error) {
	var zero T

	lock, err := c.Locker.TryAcquire(localID)
	if err != nil {
		return zero, fmt.Errorf("create %s: %w", localID, ErrMutationInFlight)
	}
	defer func() {
		_ = lock.Release(ctx)
	}()

	c.Collection.append(Entry[T]{LocalID: localID, State: StatePending, Value: provisional})

	serverID, confirmed, err := remoteCreate(ctx)
	if err != nil {
		c.Collection.remove(localID)
		c.Logger.Debug(fmt.Sprintf("rolled back optimistic create %s", localID))
		return zero, fmt.Errorf("remote create failed: %w", err)
	}

	if !c.Collection.confirm(localID, serverID, confirmed) {
		// The view replaced the collection while we were in flight. The
		// fresh fetch already contains the server's state, nothing to fix.
		c.Logger.Debug(fmt.Sprintf("confirmation for %s arrived after a refresh", localID))
	}

	return confirmed, nil
}

// Update snapshots the current value, applies mutate locally and runs
// remoteUpdate. A failure restores the snapshot verbatim; a partial merge
// after a failed write cannot be assumed consistent.
func (c *Controller[T]) Update(ctx context.Context, id string, mutate func(T) T, remoteUpdate RemoteCallFunc) error {
	lock, err := c.Locker.TryAcquire(id)
	if err != nil {
		return fmt.Errorf("update %s: %w", id, ErrMutationInFlight)
	}
	defer func() {
		_ = lock.Release(ctx)
	}()

	entry, ok := c.Collection.Get(id)
	if !ok {
		return fmt.Errorf("update %s: %w", id, ErrEntryNotFound)
	}

	snapshot := entry.Value
	c.Collection.setValue(id, mutate(entry.Value))

	err = remoteUpdate(ctx)
	if err != nil {
		c.Collection.setValue(id, snapshot)
		c.Logger.Debug(fmt.Sprintf("rolled back optimistic update %s", id))
		return fmt.Errorf("remote update failed: %w", err)
	}

	return nil
}

// Delete removes the entry immediately and runs remoteDelete. On failure the
// removed entry is re-inserted at its prior position, appending when the
// collection has been reshaped in the meantime.
func (c *Controller[T]) Delete(ctx context.Context, id string, remoteDelete RemoteCallFunc) error {
	lock, err := c.Locker.TryAcquire(id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, ErrMutationInFlight)
	}
	defer func() {
		_ = lock.Release(ctx)
	}()

	entry, index, ok := c.Collection.remove(id)
	if !ok {
		return fmt.Errorf("delete %s: %w", id, ErrEntryNotFound)
	}

	err = remoteDelete(ctx)
	if err != nil {
		c.Collection.insertAt(entry, index)
		c.Logger.Debug(fmt.Sprintf("rolled back optimistic delete %s", id))
		return fmt.Errorf("remote delete failed: %w", err)
	}

	return nil
}
