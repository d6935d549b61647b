package notifications

import (
	"strconv"
	"time"
)

// Notification kinds. The kind plus the source entity id form the key, so
// a regenerated notification for the same entity always carries the same
// key and a dismissal keeps suppressing it.
const (
	KindTaskDeadline    = "task-deadline"
	KindTaskUrgent      = "task-urgent"
	KindEventUpcoming   = "event-upcoming"
	KindBookingUpcoming = "booking-upcoming"
)

// Notification severity levels
const (
	LevelUrgent  = "urgent"
	LevelWarning = "warning"
	LevelInfo    = "info"
)

// Notification is one locally generated alert
type Notification struct {
	Key       string    `json:"key"`
	Kind      string    `json:"kind"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Key builds the stable identity of a notification from its kind and the
// entity that produced it
func Key(kind string, sourceID string) string {
	return kind + ":" + sourceID
}

// StampedKey appends the entity's last-modified time to the key when one is
// known. A dismissal then stops suppressing once the record changes.
func StampedKey(kind string, sourceID string, updatedAt time.Time) string {
	key := Key(kind, sourceID)
	if !updatedAt.IsZero() {
		key += "@" + strconv.FormatInt(updatedAt.Unix(), 10)
	}
	return key
}
