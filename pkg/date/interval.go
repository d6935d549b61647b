package date

import (
	"errors"
	"fmt"
)

// ErrInvalidInterval is returned when an interval's start lies after its end
var ErrInvalidInterval = errors.New("interval start is after end")

// Interval is a timespan bound to a specific resource, for example a piece
// of bookable equipment or a user's own calendar
type Interval struct {
	ResourceID string   `json:"resourceId" validate:"required"`
	Span       Timespan `json:"span"`
}

// Validate fails fast on a span whose start lies after its end. Callers must
// reject invalid intervals before running conflict checks; the checker never
// swaps start and end silently.
func (i *Interval) Validate() error {
	if !i.Span.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, i.Span.String())
	}
	return nil
}

// FindConflicts returns every interval in existing that belongs to the same
// resource as candidate and overlaps it in time. Results keep the input
// order; callers use the first match for user-facing messaging.
func FindConflicts(candidate Interval, existing []Interval) []Interval {
	var conflicts []Interval

	for _, interval := range existing {
		if interval.ResourceID != candidate.ResourceID {
			continue
		}

		if candidate.Span.Overlaps(interval.Span) {
			conflicts = append(conflicts, interval)
		}
	}

	return conflicts
}
