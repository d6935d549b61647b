package auth

import (
	"encoding/json"
	"path/filepath"
	"sync"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"github.com/collabhub-app/collabhub-client/pkg/logger"
)

const credentialsKey = "credentials"

// Credentials is the persisted session state: an opaque bearer token plus
// enough user identity to greet without a round-trip.
type Credentials struct {
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expiresAt"`
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
}

// ObserverInterface gets notified when the stored credential is rejected
// and the user has to re-authenticate
type ObserverInterface interface {
	OnSessionExpired()
}

// Session owns the credential lifecycle. It is built once at the
// composition root and injected everywhere a token is needed; expiry is
// broadcast through explicit observers instead of ambient globals.
type Session struct {
	mu          sync.Mutex
	store       *diskv.Diskv
	credentials *Credentials
	observers   []ObserverInterface
	logger      logger.Interface
}

// NewSession opens the credential store under dataDir and loads any
// previously persisted credentials
func NewSession(dataDir string, logging logger.Interface) *Session {
	session := &Session{
		store: diskv.New(diskv.Options{
			BasePath:     filepath.Join(dataDir, "session"),
			CacheSizeMax: 1024 * 1024,
		}),
		logger: logging,
	}

	session.load()
	return session
}

func (s *Session) load() {
	binary, err := s.store.Read(credentialsKey)
	if err != nil {
		return
	}

	credentials := Credentials{}
	err = json.Unmarshal(binary, &credentials)
	if err != nil {
		s.logger.Warning("stored credentials are unreadable, discarding them")
		_ = s.store.Erase(credentialsKey)
		return
	}

	s.credentials = &credentials
}

// Token returns the bearer token to replay, or an empty string when the
// session is anonymous
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.credentials == nil {
		return ""
	}
	return s.credentials.Token
}

// Credentials returns a copy of the current credentials
func (s *Session) Credentials() (Credentials, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.credentials == nil {
		return Credentials{}, false
	}
	return *s.credentials, true
}

// IsAuthenticated reports whether a token is present
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// Store persists new credentials, replacing any prior ones
func (s *Session) Store(credentials Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	binary, err := json.Marshal(&credentials)
	if err != nil {
		return err
	}

	err = s.store.Write(credentialsKey, binary)
	if err != nil {
		return err
	}

	s.credentials = &credentials
	return nil
}

// Clear removes the stored credentials without notifying observers; used
// for an ordinary logout
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credentials = nil
	err := s.store.Erase(credentialsKey)
	if err != nil && s.store.Has(credentialsKey) {
		return err
	}
	return nil
}

// Expire clears the credentials and broadcasts the expiry to every
// observer. Called by the transport when the backend answers 401.
func (s *Session) Expire() {
	s.mu.Lock()
	s.credentials = nil
	_ = s.store.Erase(credentialsKey)
	observers := make([]ObserverInterface, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, observer := range observers {
		observer.OnSessionExpired()
	}
}

// Subscribe registers an observer for session expiry
func (s *Session) Subscribe(observer ObserverInterface) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observers = append(s.observers, observer)
}
