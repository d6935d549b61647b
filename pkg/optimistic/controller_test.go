package optimistic

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/collabhub-app/collabhub-client/pkg/logger"
)

type testTask struct {
	Title string
}

func seededController(t *testing.T) *Controller[testTask] {
	t.Helper()

	controller := NewController[testTask](logger.Logger{})
	controller.Collection.ReplaceAll(
		[]string{"t-1", "t-2"},
		[]testTask{{Title: "Patch firewall"}, {Title: "Order cables"}},
	)
	return controller
}

func TestController_CreateConfirmsWithoutAppending(t *testing.T) {
	controller := seededController(t)
	ctx := context.Background()

	localID := NewLocalID()
	confirmed, err := controller.Create(ctx, localID, testTask{Title: "Ship sensor"}, func(ctx context.Context) (string, testTask, error) {
		// The provisional row must already be visible at the suspension point
		if controller.Collection.Len() != 3 {
			t.Errorf("pending entry not visible during remote call")
		}
		return "t-42", testTask{Title: "Ship sensor"}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if confirmed.Title != "Ship sensor" {
		t.Errorf("got %q, want confirmed value back", confirmed.Title)
	}

	if controller.Collection.Len() != 3 {
		t.Fatalf("got %d entries, want 3 (replace, not append)", controller.Collection.Len())
	}

	entry, ok := controller.Collection.Get("t-42")
	if !ok {
		t.Fatalf("confirmed entry not addressable by server id")
	}
	if entry.State != StateConfirmed {
		t.Errorf("got state %q, want confirmed", entry.State)
	}

	// Still addressable by its local id as well
	if _, ok := controller.Collection.Get(localID); !ok {
		t.Errorf("confirmed entry lost its local id")
	}
}

func TestController_CreateRollbackRestoresCollection(t *testing.T) {
	controller := seededController(t)
	ctx := context.Background()

	before := controller.Collection.Entries()

	remoteErr := errors.New("http 500")
	_, err := controller.Create(ctx, NewLocalID(), testTask{Title: "Ship sensor"}, func(ctx context.Context) (string, testTask, error) {
		return "", testTask{}, remoteErr
	})
	if !errors.Is(err, remoteErr) {
		t.Fatalf("got %v, want wrapped remote error", err)
	}

	after := controller.Collection.Entries()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("rollback left the collection changed:\nbefore %v\nafter  %v", before, after)
	}
}

func TestController_UpdateRestoresSnapshotOnFailure(t *testing.T) {
	controller := seededController(t)
	ctx := context.Background()

	err := controller.Update(ctx, "t-1", func(task testTask) testTask {
		task.Title = "Patch firewall (done)"
		return task
	}, func(ctx context.Context) error {
		entry, _ := controller.Collection.Get("t-1")
		if entry.Value.Title != "Patch firewall (done)" {
			t.Errorf("mutation not applied before remote call")
		}
		return errors.New("network down")
	})
	if err == nil {
		t.Fatalf("expected error")
	}

	entry, _ := controller.Collection.Get("t-1")
	if entry.Value.Title != "Patch firewall" {
		t.Errorf("got %q, want snapshot restored verbatim", entry.Value.Title)
	}
}

func TestController_DeleteReinsertsAtPriorPosition(t *testing.T) {
	controller := seededController(t)
	ctx := context.Background()

	err := controller.Delete(ctx, "t-1", func(ctx context.Context) error {
		if controller.Collection.Len() != 1 {
			t.Errorf("entry not removed before remote call")
		}
		return errors.New("rejected")
	})
	if err == nil {
		t.Fatalf("expected error")
	}

	values := controller.Collection.Values()
	want := []testTask{{Title: "Patch firewall"}, {Title: "Order cables"}}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("got %v, want original order restored", values)
	}
}

func TestController_DeleteSucceeds(t *testing.T) {
	controller := seededController(t)
	ctx := context.Background()

	err := controller.Delete(ctx, "t-2", func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := controller.Collection.Get("t-2"); ok {
		t.Errorf("deleted entry still present")
	}
}

func TestController_RejectsOverlappingMutations(t *testing.T) {
	controller := seededController(t)
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- controller.Update(ctx, "t-1", func(task testTask) testTask {
			return task
		}, func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	err := controller.Update(ctx, "t-1", func(task testTask) testTask {
		return task
	}, func(ctx context.Context) error {
		return nil
	})
	if !errors.Is(err, ErrMutationInFlight) {
		t.Errorf("got %v, want ErrMutationInFlight", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first mutation failed: %v", err)
	}

	// Once settled the entity accepts mutations again
	err = controller.Update(ctx, "t-1", func(task testTask) testTask {
		return task
	}, func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Errorf("unexpected error after settle: %v", err)
	}
}
