package auth

import (
	"testing"
	"time"

	"github.com/collabhub-app/collabhub-client/pkg/logger"
)

type expiryRecorder struct {
	expired int
}

func (r *expiryRecorder) OnSessionExpired() {
	r.expired++
}

func TestSession_StoreAndReload(t *testing.T) {
	dir := t.TempDir()

	session := NewSession(dir, logger.Logger{})
	if session.IsAuthenticated() {
		t.Fatalf("fresh session should be anonymous")
	}

	err := session.Store(Credentials{
		Token:       "opaque-token",
		ExpiresAt:   time.Now().Add(time.Hour),
		UserID:      "u-1",
		Email:       "sarah@example.com",
		DisplayName: "Sarah Chen",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A second session over the same directory sees the persisted token
	reloaded := NewSession(dir, logger.Logger{})
	if reloaded.Token() != "opaque-token" {
		t.Errorf("got %q, want persisted token", reloaded.Token())
	}

	credentials, ok := reloaded.Credentials()
	if !ok || credentials.Email != "sarah@example.com" {
		t.Errorf("got %+v, want persisted credentials", credentials)
	}
}

func TestSession_ExpireNotifiesObserversAndClears(t *testing.T) {
	session := NewSession(t.TempDir(), logger.Logger{})
	_ = session.Store(Credentials{Token: "opaque-token"})

	recorder := &expiryRecorder{}
	session.Subscribe(recorder)

	session.Expire()

	if recorder.expired != 1 {
		t.Errorf("got %d expiry notifications, want 1", recorder.expired)
	}
	if session.IsAuthenticated() {
		t.Errorf("session still authenticated after expiry")
	}
}

func TestSession_ClearDoesNotNotify(t *testing.T) {
	session := NewSession(t.TempDir(), logger.Logger{})
	_ = session.Store(Credentials{Token: "opaque-token"})

	recorder := &expiryRecorder{}
	session.Subscribe(recorder)

	err := session.Clear()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if recorder.expired != 0 {
		t.Errorf("logout must not broadcast expiry")
	}
	if session.IsAuthenticated() {
		t.Errorf("session still authenticated after clear")
	}
}
