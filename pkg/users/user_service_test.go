package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/collabhub-app/collabhub-client/pkg/auth"
	"github.com/collabhub-app/collabhub-client/pkg/communication"
	"github.com/collabhub-app/collabhub-client/pkg/logger"
)

func newTestService(t *testing.T, router *mux.Router) *UserService {
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	session := auth.NewSession(t.TempDir(), logger.Logger{})
	client := communication.NewClient(server.URL, 5*time.Second, session, logger.Logger{})
	return &UserService{Client: client, Session: session, Logger: logger.Logger{}}
}

func TestLoginStoresCredentials(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/auth/login", func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`{"success":true,"data":{
			"user":{"id":"u-1","email":"robin@example.com","firstName":"Robin","lastName":"Vega","department":"Infrastructure"},
			"token":"token-1","expiresAt":"2025-12-01T00:00:00Z"
		}}`))
	}).Methods(http.MethodPost)

	service := newTestService(t, router)

	user, err := service.Login(context.Background(), LoginRequest{
		Email:    "robin@example.com",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.DisplayName() != "Robin Vega" {
		t.Errorf("got %q, want Robin Vega", user.DisplayName())
	}

	credentials, ok := service.Session.Credentials()
	if !ok {
		t.Fatalf("expected stored credentials after login")
	}
	if credentials.Token != "token-1" || credentials.UserID != "u-1" {
		t.Errorf("unexpected credentials: %+v", credentials)
	}
}

func TestLoginValidatesBeforeCalling(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/auth/login", func(writer http.ResponseWriter, request *http.Request) {
		t.Errorf("an invalid login must never reach the server")
	}).Methods(http.MethodPost)

	service := newTestService(t, router)

	_, err := service.Login(context.Background(), LoginRequest{Email: "not-an-email", Password: ""})
	if err == nil {
		t.Fatalf("expected a validation error")
	}
	if service.Session.IsAuthenticated() {
		t.Errorf("no credentials may be stored on a failed login")
	}
}

func TestLogoutClearsSessionEvenWhenBackendFails(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/auth/login", func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`{"success":true,"data":{
			"user":{"id":"u-1","email":"robin@example.com","firstName":"Robin","lastName":"Vega"},
			"token":"token-1","expiresAt":"2025-12-01T00:00:00Z"
		}}`))
	}).Methods(http.MethodPost)
	router.HandleFunc("/auth/logout", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusInternalServerError)
		_, _ = writer.Write([]byte(`{"success":false,"error":{"code":"INTERNAL","message":"down"}}`))
	}).Methods(http.MethodPost)

	service := newTestService(t, router)

	_, err := service.Login(context.Background(), LoginRequest{Email: "robin@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = service.Logout(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if service.Session.IsAuthenticated() {
		t.Errorf("expected the local session to be cleared")
	}
}
