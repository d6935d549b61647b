package communication

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/collabhub-app/collabhub-client/pkg/logger"
)

type fakeSession struct {
	token   string
	expired bool
}

func (s *fakeSession) Token() string {
	return s.token
}

func (s *fakeSession) Expire() {
	s.expired = true
}

func newTestClient(t *testing.T, router *mux.Router, session *fakeSession) *Client {
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, session, logger.Logger{})
}

func TestDoUnwrapsEnvelope(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/ping", func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("Authorization") != "Bearer token-1" {
			t.Errorf("missing bearer token, got %q", request.Header.Get("Authorization"))
		}
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"success":true,"data":{"answer":42}}`))
	}).Methods(http.MethodGet)

	client := newTestClient(t, router, &fakeSession{token: "token-1"})

	data := struct {
		Answer int `json:"answer"`
	}{}
	err := client.Get(context.Background(), "/ping", &data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Answer != 42 {
		t.Errorf("got %d, want 42", data.Answer)
	}
}

func TestDoTreatsUnauthorizedAsExpiry(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/me", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
	}).Methods(http.MethodGet)

	session := &fakeSession{token: "stale"}
	client := newTestClient(t, router, session)

	err := client.Get(context.Background(), "/me", nil)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("got %v, want ErrSessionExpired", err)
	}
	if !session.expired {
		t.Errorf("expected the session to be expired")
	}
}

func TestDoReportsRejections(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/tasks", func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = writer.Write([]byte(`{"success":false,"error":{"code":"VALIDATION","message":"title is required"}}`))
	}).Methods(http.MethodPost)

	client := newTestClient(t, router, &fakeSession{token: "token-1"})

	err := client.Post(context.Background(), "/tasks", map[string]string{}, nil)
	if !IsRejection(err) {
		t.Fatalf("got %v, want a RequestError", err)
	}

	var requestError *RequestError
	errors.As(err, &requestError)
	if requestError.Status != http.StatusUnprocessableEntity || requestError.Code != "VALIDATION" {
		t.Errorf("unexpected rejection detail: %+v", requestError)
	}
}

func TestDoRejectsUnsuccessfulEnvelopeDespiteStatus(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/flaky", func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"success":false,"error":{"code":"INTERNAL","message":"backend hiccup"}}`))
	}).Methods(http.MethodGet)

	client := newTestClient(t, router, &fakeSession{})

	err := client.Get(context.Background(), "/flaky", nil)
	if !IsRejection(err) {
		t.Fatalf("got %v, want a RequestError", err)
	}
}

func TestDoWrapsTransportFailures(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second, &fakeSession{}, logger.Logger{})

	err := client.Get(context.Background(), "/anything", nil)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("got %v, want ErrTransport", err)
	}
}
