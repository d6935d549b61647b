package notifications

import (
	"sync"

	"github.com/collabhub-app/collabhub-client/pkg/logger"
)

// SinkInterface receives newly generated notifications
type SinkInterface interface {
	Publish(notification Notification)
}

// Deduper wraps a sink and drops notifications whose key was already
// published, so a regeneration cycle does not re-announce known alerts.
type Deduper struct {
	Sink SinkInterface

	lock sync.Mutex
	seen map[string]bool
}

// NewDeduper constructs a Deduper around a sink
func NewDeduper(sink SinkInterface) *Deduper {
	return &Deduper{
		Sink: sink,
		seen: make(map[string]bool),
	}
}

// Publish forwards the notification unless its key was published before
func (d *Deduper) Publish(notification Notification) {
	d.lock.Lock()
	if d.seen[notification.Key] {
		d.lock.Unlock()
		return
	}
	d.seen[notification.Key] = true
	d.lock.Unlock()

	d.Sink.Publish(notification)
}

// Forget drops the key from the seen set so a later regeneration may
// publish it again
func (d *Deduper) Forget(key string) {
	d.lock.Lock()
	defer d.lock.Unlock()
	delete(d.seen, key)
}

// LogSink writes notifications to the logger
type LogSink struct {
	Logger logger.Interface
}

// Publish logs the notification message
func (s *LogSink) Publish(notification Notification) {
	s.Logger.Info("[" + notification.Level + "] " + notification.Message)
}
