package notifications

import (
	"fmt"
	"time"

	"github.com/collabhub-app/collabhub-client/pkg/calendar"
	"github.com/collabhub-app/collabhub-client/pkg/date"
	"github.com/collabhub-app/collabhub-client/pkg/equipment"
	"github.com/collabhub-app/collabhub-client/pkg/tasks"
)

// Generator turns the current task, event and booking lists into alerts.
// Output order is deterministic: tasks first, then events, then bookings,
// each in input order. Dismissed keys are suppressed.
type Generator struct {
	Dismissed *DismissedStore
}

// Generate produces the full alert list for one moment in time
func (g *Generator) Generate(now time.Time, taskList []tasks.Task, eventList []calendar.Event, bookingList []equipment.Booking) []Notification {
	var result []Notification

	for _, task := range taskList {
		notification, ok := g.fromTask(now, task)
		if ok {
			result = g.appendUnlessDismissed(result, notification)
		}
	}
	for _, event := range eventList {
		notification, ok := g.fromEvent(now, event)
		if ok {
			result = g.appendUnlessDismissed(result, notification)
		}
	}
	for _, booking := range bookingList {
		notification, ok := g.fromBooking(now, booking)
		if ok {
			result = g.appendUnlessDismissed(result, notification)
		}
	}

	return result
}

func (g *Generator) appendUnlessDismissed(list []Notification, notification Notification) []Notification {
	if g.Dismissed != nil && g.Dismissed.IsDismissed(notification.Key) {
		return list
	}
	return append(list, notification)
}

// fromTask alerts on deadline pressure. Completed tasks never alert; a
// deadline alert wins over a plain urgency alert for the same task.
func (g *Generator) fromTask(now time.Time, task tasks.Task) (Notification, bool) {
	if task.IsCompleted || task.Deadline.IsZero() {
		return Notification{}, false
	}

	remaining := task.Deadline.Sub(now)

	switch task.ClassifyDeadline(now) {
	case tasks.DeadlineOverdue:
		overdueBy := now.Sub(task.Deadline)
		message := fmt.Sprintf("Task %q is overdue by %d hours", task.Title, int(overdueBy.Hours()))
		if overdueBy < time.Hour {
			message = fmt.Sprintf("Task %q is overdue by %d minutes", task.Title, int(overdueBy.Minutes()))
		}
		return Notification{
			Key:       StampedKey(KindTaskDeadline, task.ID, task.UpdatedAt),
			Kind:      KindTaskDeadline,
			Level:     LevelUrgent,
			Message:   message,
			Timestamp: now,
		}, true
	case tasks.DeadlineCritical:
		minutes := int(remaining.Minutes())
		return Notification{
			Key:       StampedKey(KindTaskDeadline, task.ID, task.UpdatedAt),
			Kind:      KindTaskDeadline,
			Level:     LevelUrgent,
			Message:   fmt.Sprintf("Task %q is due in %d minutes", task.Title, minutes),
			Timestamp: now,
		}, true
	case tasks.DeadlineSoon:
		hours := int(remaining.Hours())
		return Notification{
			Key:       StampedKey(KindTaskDeadline, task.ID, task.UpdatedAt),
			Kind:      KindTaskDeadline,
			Level:     LevelWarning,
			Message:   fmt.Sprintf("Task %q is due in %d hours", task.Title, hours),
			Timestamp: now,
		}, true
	}

	if task.Urgency == tasks.UrgencyUrgent {
		return Notification{
			Key:       StampedKey(KindTaskUrgent, task.ID, task.UpdatedAt),
			Kind:      KindTaskUrgent,
			Level:     LevelWarning,
			Message:   fmt.Sprintf("Urgent task %q needs attention", task.Title),
			Timestamp: now,
		}, true
	}

	return Notification{}, false
}

// fromEvent alerts on events starting within the next two hours
func (g *Generator) fromEvent(now time.Time, event calendar.Event) (Notification, bool) {
	if event.StartsAt.IsZero() {
		return Notification{}, false
	}

	untilStart := event.StartsAt.Sub(now)
	if untilStart < 0 || untilStart > 2*time.Hour {
		return Notification{}, false
	}

	message := fmt.Sprintf("%s starts at %s", event.Title, event.StartsAt.Format("15:04"))
	if untilStart <= time.Hour {
		message = fmt.Sprintf("%s starts in %d minutes", event.Title, int(untilStart.Minutes()))
	}

	return Notification{
		Key:       StampedKey(KindEventUpcoming, event.ID, event.UpdatedAt),
		Kind:      KindEventUpcoming,
		Level:     LevelInfo,
		Message:   message,
		Timestamp: now,
	}, true
}

// fromBooking alerts on bookings starting today or tomorrow. Bookings are
// whole-day granular, so the comparison is by calendar day.
func (g *Generator) fromBooking(now time.Time, booking equipment.Booking) (Notification, bool) {
	if booking.Period.Start.IsZero() {
		return Notification{}, false
	}

	var when string
	switch {
	case date.SameCalendarDay(now, booking.Period.Start):
		when = "today"
	case date.SameCalendarDay(now.AddDate(0, 0, 1), booking.Period.Start):
		when = "tomorrow"
	default:
		return Notification{}, false
	}

	name := booking.EquipmentName
	if name == "" {
		name = booking.EquipmentID
	}

	return Notification{
		Key:       Key(KindBookingUpcoming, booking.ID),
		Kind:      KindBookingUpcoming,
		Level:     LevelInfo,
		Message:   fmt.Sprintf("Your booking of %s starts %s", name, when),
		Timestamp: now,
	}, true
}
