package notifications

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/collabhub-app/collabhub-client/pkg/calendar"
	"github.com/collabhub-app/collabhub-client/pkg/date"
	"github.com/collabhub-app/collabhub-client/pkg/equipment"
	"github.com/collabhub-app/collabhub-client/pkg/tasks"
)

func timeDate(year int, month time.Month, day int, hour int, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func TestGeneratorTaskMessages(t *testing.T) {
	now := timeDate(2025, 11, 10, 12, 0)
	generator := &Generator{}

	type testCase struct {
		Task        tasks.Task
		WantMessage string
		WantLevel   string
		WantNothing bool
	}

	testCases := []testCase{
		{
			Task:        tasks.Task{ID: "t-1", Title: "Patch firewall", Deadline: timeDate(2025, 11, 10, 9, 0)},
			WantMessage: `Task "Patch firewall" is overdue by 3 hours`,
			WantLevel:   LevelUrgent,
		},
		{
			Task:        tasks.Task{ID: "t-7", Title: "Restart proxy", Deadline: timeDate(2025, 11, 10, 11, 40)},
			WantMessage: `Task "Restart proxy" is overdue by 20 minutes`,
			WantLevel:   LevelUrgent,
		},
		{
			Task:        tasks.Task{ID: "t-2", Title: "Rotate backups", Deadline: timeDate(2025, 11, 10, 13, 30)},
			WantMessage: `Task "Rotate backups" is due in 90 minutes`,
			WantLevel:   LevelUrgent,
		},
		{
			Task:        tasks.Task{ID: "t-3", Title: "Order cables", Deadline: timeDate(2025, 11, 11, 8, 0)},
			WantMessage: `Task "Order cables" is due in 20 hours`,
			WantLevel:   LevelWarning,
		},
		{
			Task:        tasks.Task{ID: "t-4", Title: "Replace switch", Urgency: tasks.UrgencyUrgent, Deadline: timeDate(2025, 11, 20, 8, 0)},
			WantMessage: `Urgent task "Replace switch" needs attention`,
			WantLevel:   LevelWarning,
		},
		{
			// Distant deadline without urgency stays quiet
			Task:        tasks.Task{ID: "t-5", Title: "Plan refresh", Deadline: timeDate(2025, 12, 1, 8, 0)},
			WantNothing: true,
		},
		{
			// Completed tasks never alert, even when overdue
			Task:        tasks.Task{ID: "t-6", Title: "Old chore", Deadline: timeDate(2025, 11, 1, 8, 0), IsCompleted: true},
			WantNothing: true,
		},
	}

	for i, testCase := range testCases {
		t.Run(fmt.Sprintf("Case %d", i), func(t *testing.T) {
			notification, ok := generator.fromTask(now, testCase.Task)
			if testCase.WantNothing {
				if ok {
					t.Errorf("expected no notification, got %v", notification)
				}
				return
			}

			if !ok {
				t.Fatalf("expected a notification for task %s", testCase.Task.ID)
			}
			if notification.Message != testCase.WantMessage {
				t.Errorf("got message %q, want %q", notification.Message, testCase.WantMessage)
			}
			if notification.Level != testCase.WantLevel {
				t.Errorf("got level %q, want %q", notification.Level, testCase.WantLevel)
			}
		})
	}
}

func TestGeneratorOrderAndKeys(t *testing.T) {
	now := timeDate(2025, 11, 10, 12, 0)
	generator := &Generator{}

	taskList := []tasks.Task{
		{ID: "t-1", Title: "Patch firewall", Deadline: timeDate(2025, 11, 10, 9, 0)},
	}
	eventList := []calendar.Event{
		{ID: "e-1", Title: "Standup", StartsAt: timeDate(2025, 11, 10, 12, 30)},
	}
	bookingList := []equipment.Booking{
		{ID: "b-1", EquipmentID: "eq-1", EquipmentName: "Projector", Period: date.Timespan{
			Start: timeDate(2025, 11, 10, 0, 0),
			End:   timeDate(2025, 11, 10, 23, 59),
		}},
	}

	notifications := generator.Generate(now, taskList, eventList, bookingList)

	wantKeys := []string{"task-deadline:t-1", "event-upcoming:e-1", "booking-upcoming:b-1"}
	if len(notifications) != len(wantKeys) {
		t.Fatalf("got %d notifications, want %d", len(notifications), len(wantKeys))
	}
	for i, want := range wantKeys {
		if notifications[i].Key != want {
			t.Errorf("position %d: got key %q, want %q", i, notifications[i].Key, want)
		}
	}

	if !strings.Contains(notifications[1].Message, "30 minutes") {
		t.Errorf("expected minute countdown for a near event, got %q", notifications[1].Message)
	}
	if !strings.Contains(notifications[2].Message, "starts today") {
		t.Errorf("expected a same-day booking alert, got %q", notifications[2].Message)
	}

	// A second run over the same inputs yields the same keys
	again := generator.Generate(now, taskList, eventList, bookingList)
	for i := range notifications {
		if again[i].Key != notifications[i].Key {
			t.Errorf("regeneration changed key %q to %q", notifications[i].Key, again[i].Key)
		}
	}
}

func TestGeneratorSuppressesDismissedKeys(t *testing.T) {
	now := timeDate(2025, 11, 10, 12, 0)
	generator := &Generator{Dismissed: NewDismissedStore(t.TempDir())}

	taskList := []tasks.Task{
		{ID: "t-1", Title: "Patch firewall", Deadline: timeDate(2025, 11, 10, 9, 0)},
		{ID: "t-2", Title: "Rotate backups", Deadline: timeDate(2025, 11, 10, 10, 0)},
	}

	notifications := generator.Generate(now, taskList, nil, nil)
	if len(notifications) != 2 {
		t.Fatalf("got %d notifications, want 2", len(notifications))
	}

	err := generator.Dismissed.Dismiss(notifications[0].Key)
	if err != nil {
		t.Fatalf("dismiss failed: %v", err)
	}

	notifications = generator.Generate(now, taskList, nil, nil)
	if len(notifications) != 1 {
		t.Fatalf("got %d notifications after dismissal, want 1", len(notifications))
	}
	if notifications[0].Key != "task-deadline:t-2" {
		t.Errorf("wrong survivor: %q", notifications[0].Key)
	}
}

func TestDismissalExpiresWhenRecordChanges(t *testing.T) {
	now := timeDate(2025, 11, 10, 12, 0)
	generator := &Generator{Dismissed: NewDismissedStore(t.TempDir())}

	task := tasks.Task{
		ID:        "t-1",
		Title:     "Patch firewall",
		Deadline:  timeDate(2025, 11, 10, 9, 0),
		UpdatedAt: timeDate(2025, 11, 9, 8, 0),
	}

	notifications := generator.Generate(now, []tasks.Task{task}, nil, nil)
	if len(notifications) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifications))
	}

	err := generator.Dismissed.Dismiss(notifications[0].Key)
	if err != nil {
		t.Fatalf("dismiss failed: %v", err)
	}

	if got := generator.Generate(now, []tasks.Task{task}, nil, nil); len(got) != 0 {
		t.Fatalf("expected the dismissed alert to stay suppressed, got %v", got)
	}

	// An edit to the task carries a new stamp, so the alert comes back
	task.UpdatedAt = timeDate(2025, 11, 10, 11, 0)
	if got := generator.Generate(now, []tasks.Task{task}, nil, nil); len(got) != 1 {
		t.Fatalf("expected the alert to resurface after an edit, got %v", got)
	}
}

type captureSink struct {
	published []Notification
}

func (s *captureSink) Publish(notification Notification) {
	s.published = append(s.published, notification)
}

func TestDeduperPublishesEachKeyOnce(t *testing.T) {
	sink := &captureSink{}
	deduper := NewDeduper(sink)

	notification := Notification{Key: "task-deadline:t-1", Message: "Task \"Patch firewall\" is overdue"}
	deduper.Publish(notification)
	deduper.Publish(notification)

	if len(sink.published) != 1 {
		t.Fatalf("got %d published notifications, want 1", len(sink.published))
	}

	deduper.Forget(notification.Key)
	deduper.Publish(notification)

	if len(sink.published) != 2 {
		t.Errorf("expected republish after Forget, got %d", len(sink.published))
	}
}
