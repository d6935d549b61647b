package notifications

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/collabhub-app/collabhub-client/pkg/calendar"
	"github.com/collabhub-app/collabhub-client/pkg/equipment"
	"github.com/collabhub-app/collabhub-client/pkg/tasks"
)

// Collector fetches the three notification sources concurrently
type Collector struct {
	Tasks    *tasks.TaskService
	Events   *calendar.EventService
	Bookings *equipment.EquipmentService
}

// Collect fetches tasks, the next two days of events and the caller's
// bookings. One failing source fails the whole collection; the caller
// keeps its previous notification list in that case.
func (c *Collector) Collect(ctx context.Context, now time.Time) ([]tasks.Task, []calendar.Event, []equipment.Booking, error) {
	var (
		taskList    []tasks.Task
		eventList   []calendar.Event
		bookingList []equipment.Booking
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		var err error
		taskList, err = c.Tasks.List(groupCtx, tasks.Filter{})
		return err
	})

	group.Go(func() error {
		var err error
		eventList, err = c.Events.List(groupCtx, calendar.Filter{
			From: now,
			To:   now.AddDate(0, 0, 2),
		})
		return err
	})

	group.Go(func() error {
		var err error
		bookingList, err = c.Bookings.MyBookings(groupCtx)
		return err
	})

	err := group.Wait()
	if err != nil {
		return nil, nil, nil, err
	}
	return taskList, eventList, bookingList, nil
}
