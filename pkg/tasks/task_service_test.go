package tasks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/collabhub-app/collabhub-client/pkg/communication"
	"github.com/collabhub-app/collabhub-client/pkg/logger"
)

type staticSession struct{}

func (s *staticSession) Token() string {
	return "token-1"
}

func (s *staticSession) Expire() {}

func newTestService(t *testing.T, router *mux.Router) *TaskService {
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	client := communication.NewClient(server.URL, 5*time.Second, &staticSession{}, logger.Logger{})
	cache, err := communication.NewListCache(8)
	if err != nil {
		t.Fatalf("could not build cache: %v", err)
	}
	return NewTaskService(client, cache, logger.Logger{})
}

const taskListBody = `{"success":true,"data":{"tasks":[
	{"id":"t-1","title":"Patch firewall","urgency":"high","status":"pending","deadline":"2025-11-10T09:00:00Z"},
	{"id":"t-2","title":"Order cables","urgency":"low","status":"pending","deadline":"2025-11-20T09:00:00Z"}
]}}`

func TestListReconcilesCollection(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/tasks", func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(taskListBody))
	}).Methods(http.MethodGet)

	service := newTestService(t, router)

	tasks, err := service.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}

	if !reflect.DeepEqual(service.Active(), tasks) {
		t.Errorf("collection out of sync with fetched list")
	}
}

func TestListServesCacheWhenFetchFails(t *testing.T) {
	failing := false
	router := mux.NewRouter()
	router.HandleFunc("/tasks", func(writer http.ResponseWriter, request *http.Request) {
		if failing {
			writer.WriteHeader(http.StatusInternalServerError)
			_, _ = writer.Write([]byte(`{"success":false,"error":{"code":"INTERNAL","message":"down"}}`))
			return
		}
		_, _ = writer.Write([]byte(taskListBody))
	}).Methods(http.MethodGet)

	service := newTestService(t, router)

	first, err := service.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	failing = true
	second, err := service.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("expected the cached list, got error: %v", err)
	}
	if !reflect.DeepEqual(second, first) {
		t.Errorf("cached list differs from the last good fetch")
	}
}

func TestCreateConfirmsWithServerIdentity(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/tasks", func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(taskListBody))
	}).Methods(http.MethodGet)
	router.HandleFunc("/tasks", func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`{"success":true,"data":{"task":
			{"id":"t-42","title":"Ship sensor","urgency":"medium","status":"pending","deadline":"2025-11-15T09:00:00Z"}
		}}`))
	}).Methods(http.MethodPost)

	service := newTestService(t, router)

	_, err := service.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	created, err := service.Create(context.Background(), CreateRequest{
		Title:      "Ship sensor",
		Urgency:    UrgencyMedium,
		Department: "Infrastructure",
		Deadline:   time.Date(2025, 11, 15, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "t-42" {
		t.Errorf("got id %q, want the server identity t-42", created.ID)
	}

	active := service.Active()
	if len(active) != 3 {
		t.Fatalf("got %d tasks, want 3; the provisional entry must be replaced, not kept alongside", len(active))
	}
	if active[2].ID != "t-42" || active[2].Title != "Ship sensor" {
		t.Errorf("confirmed task not in place: %+v", active[2])
	}
}

func TestCreateRollsBackOnFailure(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/tasks", func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(taskListBody))
	}).Methods(http.MethodGet)
	router.HandleFunc("/tasks", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusInternalServerError)
		_, _ = writer.Write([]byte(`{"success":false,"error":{"code":"INTERNAL","message":"insert failed"}}`))
	}).Methods(http.MethodPost)

	service := newTestService(t, router)

	_, err := service.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := service.Active()

	_, err = service.Create(context.Background(), CreateRequest{
		Title:      "Ship sensor",
		Urgency:    UrgencyMedium,
		Department: "Infrastructure",
		Deadline:   time.Date(2025, 11, 15, 9, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Fatalf("expected the create to fail")
	}

	if !reflect.DeepEqual(service.Active(), before) {
		t.Errorf("collection not restored after failed create")
	}
}

func TestSetStatusRollsBackOnFailure(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/tasks", func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(taskListBody))
	}).Methods(http.MethodGet)
	router.HandleFunc("/tasks/{id}/status", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusConflict)
		_, _ = writer.Write([]byte(`{"success":false,"error":{"code":"CONFLICT","message":"stale"}}`))
	}).Methods(http.MethodPatch)

	service := newTestService(t, router)

	_, err := service.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := service.Active()

	err = service.SetStatus(context.Background(), "t-1", StatusCompleted)
	if !communication.IsRejection(err) {
		t.Fatalf("got %v, want a RequestError", err)
	}

	if !reflect.DeepEqual(service.Active(), before) {
		t.Errorf("task not restored after failed status change")
	}
}
