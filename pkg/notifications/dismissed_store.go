package notifications

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

// DismissedStore persists dismissed notification keys so a dismissal
// survives restarts and keeps suppressing regenerated notifications.
type DismissedStore struct {
	store *diskv.Diskv
	lock  sync.Mutex
}

// NewDismissedStore opens the store under dataDir
func NewDismissedStore(dataDir string) *DismissedStore {
	return &DismissedStore{
		store: diskv.New(diskv.Options{
			BasePath:     filepath.Join(dataDir, "dismissed"),
			CacheSizeMax: 1024 * 1024,
		}),
	}
}

// Keys are used as filenames; ':' is replaced to stay portable.
func fileKey(key string) string {
	return strings.ReplaceAll(key, ":", "_")
}

// Dismiss records the key
func (s *DismissedStore) Dismiss(key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.store.Write(fileKey(key), []byte(key))
}

// IsDismissed reports whether the key was dismissed before
func (s *DismissedStore) IsDismissed(key string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.store.Has(fileKey(key))
}

// Clear forgets all dismissals
func (s *DismissedStore) Clear() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.store.EraseAll()
}
