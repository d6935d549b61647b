package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/collabhub-app/collabhub-client/pkg/logger"
	"github.com/collabhub-app/collabhub-client/pkg/poll"
)

// Center owns the current notification list. It regenerates the list on a
// fixed period and republishes new alerts to its sinks.
type Center struct {
	Generator *Generator
	Collector *Collector
	Logger    logger.Interface

	lock    sync.Mutex
	current []Notification
	deduper *Deduper

	refresher *poll.Scheduler
}

// NewCenter constructs a Center publishing to the given sink
func NewCenter(collector *Collector, dismissed *DismissedStore, sink SinkInterface, logging logger.Interface) *Center {
	return &Center{
		Generator: &Generator{Dismissed: dismissed},
		Collector: collector,
		Logger:    logging,
		deduper:   NewDeduper(sink),
	}
}

// Refresh collects the sources and regenerates the notification list. On
// collection failure the previous list is kept.
func (c *Center) Refresh(ctx context.Context) error {
	now := time.Now()

	taskList, eventList, bookingList, err := c.Collector.Collect(ctx, now)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("notification refresh failed, keeping previous list: %v", err))
		return err
	}

	notifications := c.Generator.Generate(now, taskList, eventList, bookingList)

	c.lock.Lock()
	c.current = notifications
	c.lock.Unlock()

	for _, notification := range notifications {
		c.deduper.Publish(notification)
	}
	return nil
}

// Current returns a copy of the latest notification list
func (c *Center) Current() []Notification {
	c.lock.Lock()
	defer c.lock.Unlock()

	notifications := make([]Notification, len(c.current))
	copy(notifications, c.current)
	return notifications
}

// Dismiss persists the dismissal and removes the notification immediately.
// Regeneration will not bring the key back.
func (c *Center) Dismiss(key string) error {
	err := c.Generator.Dismissed.Dismiss(key)
	if err != nil {
		return err
	}

	c.lock.Lock()
	kept := c.current[:0]
	for _, notification := range c.current {
		if notification.Key != key {
			kept = append(kept, notification)
		}
	}
	c.current = kept
	c.lock.Unlock()
	return nil
}

// Start begins periodic regeneration. The first refresh runs immediately.
func (c *Center) Start(ctx context.Context, period time.Duration) {
	if c.refresher != nil && c.refresher.IsRunning() {
		return
	}

	c.refresher = poll.NewScheduler(period, func() {
		_ = c.Refresh(ctx)
	}, c.Logger)
	c.refresher.Start()
}

// Stop halts periodic regeneration
func (c *Center) Stop() {
	if c.refresher != nil {
		c.refresher.Stop()
	}
}
