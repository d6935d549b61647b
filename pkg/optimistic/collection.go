package optimistic

import (
	"sync"

	"github.com/google/uuid"
)

// State describes where an entry is in its reconciliation lifecycle
type State string

// StatePending marks an entry whose remote round-trip has not settled yet
const StatePending State = "pending"

// StateConfirmed marks an entry the server has acknowledged
const StateConfirmed State = "confirmed"

// Entry wraps a value together with its optimistic bookkeeping. While the
// state is pending the entry is shown like a confirmed one, but it stays
// addressable by LocalID so a failure can retract exactly this entry.
type Entry[T any] struct {
	LocalID  string
	ServerID string
	State    State
	Value    T
}

// ID returns the server id once confirmed and the local id before that
func (e *Entry[T]) ID() string {
	if e.ServerID != "" {
		return e.ServerID
	}
	return e.LocalID
}

// NewLocalID generates a session-unique temporary identifier
func NewLocalID() string {
	return "local-" + uuid.New().String()
}

// Collection is an ordered list of entries shared between a view and the
// mutation controller. All access is serialized by an internal mutex.
type Collection[T any] struct {
	mu      sync.Mutex
	entries []Entry[T]
}

// NewCollection builds an empty Collection
func NewCollection[T any]() *Collection[T] {
	return &Collection[T]{}
}

// ReplaceAll swaps the whole collection for freshly fetched, confirmed
// values keyed by their server ids. Order follows the input.
func (c *Collection[T]) ReplaceAll(serverIDs []string, values []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]Entry[T], 0, len(values))
	for i, value := range values {
		entries = append(entries, Entry[T]{ServerID: serverIDs[i], State: StateConfirmed, Value: value})
	}
	c.entries = entries
}

// Entries returns a copy of all entries in order, pending ones included
func (c *Collection[T]) Entries() []Entry[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]Entry[T], len(c.entries))
	copy(entries, c.entries)
	return entries
}

// Values returns all values in order, pending ones included
func (c *Collection[T]) Values() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	values := make([]T, 0, len(c.entries))
	for _, entry := range c.entries {
		values = append(values, entry.Value)
	}
	return values
}

// Len returns the number of entries
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Get finds an entry by its local or server id
func (c *Collection[T]) Get(id string) (Entry[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	index := c.indexOf(id)
	if index < 0 {
		var zero Entry[T]
		return zero, false
	}
	return c.entries[index], true
}

func (c *Collection[T]) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, entry := range c.entries {
		if entry.LocalID == id || entry.ServerID == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) append(entry Entry[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = append(c.entries, entry)
}

func (c *Collection[T]) confirm(localID string, serverID string, value T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	index := c.indexOf(localID)
	if index < 0 {
		return false
	}
	c.entries[index] = Entry[T]{LocalID: localID, ServerID: serverID, State: StateConfirmed, Value: value}
	return true
}

func (c *Collection[T]) setValue(id string, value T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	index := c.indexOf(id)
	if index < 0 {
		return false
	}
	c.entries[index].Value = value
	return true
}

// remove takes an entry out and reports the position it held
func (c *Collection[T]) remove(id string) (Entry[T], int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	index := c.indexOf(id)
	if index < 0 {
		var zero Entry[T]
		return zero, -1, false
	}

	entry := c.entries[index]
	c.entries = append(c.entries[:index], c.entries[index+1:]...)
	return entry, index, true
}

// insertAt restores an entry at its prior position, appending when the
// collection has shrunk past that index in the meantime
func (c *Collection[T]) insertAt(entry Entry[T], index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index > len(c.entries) {
		c.entries = append(c.entries, entry)
		return
	}

	c.entries = append(c.entries, Entry[T]{})
	copy(c.entries[index+1:], c.entries[index:])
	c.entries[index] = entry
}
