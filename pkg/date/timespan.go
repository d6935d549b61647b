package date

import (
	"fmt"
	"sort"
	"time"
)

// TimeBeforeOrEquals returns whether t1 is before or equal t2
func TimeBeforeOrEquals(t1 time.Time, t2 time.Time) bool {
	return t1.UnixNano() <= t2.UnixNano()
}

// TimeAfterOrEquals returns whether t1 is after or equal t2
func TimeAfterOrEquals(t1 time.Time, t2 time.Time) bool {
	return t1.UnixNano() >= t2.UnixNano()
}

// SameCalendarDay returns whether both times fall on the same calendar day
func SameCalendarDay(t1 time.Time, t2 time.Time) bool {
	y1, m1, d1 := t1.Date()
	y2, m2, d2 := t2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Timespan is a simple timespan between two times/dates
type Timespan struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required"`
}

// Duration simply gets the duration of a Timespan
func (t *Timespan) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// String prints a timespan string
func (t *Timespan) String() string {
	return fmt.Sprintf("%s - %s", t.Start.Format("2006-01-02"), t.End.Format("2006-01-02"))
}

// IsValid checks that start does not lie after end; zero-width spans are valid
func (t *Timespan) IsValid() bool {
	return TimeBeforeOrEquals(t.Start, t.End)
}

// Overlaps checks whether two timespans overlap, inclusive on both ends.
// A span ending on day N and one starting on day N count as overlapping,
// which matches whole-day booking semantics.
func (t *Timespan) Overlaps(timespan Timespan) bool {
	return TimeBeforeOrEquals(t.Start, timespan.End) && TimeBeforeOrEquals(timespan.Start, t.End)
}

// Contains checks if timespan t contains another Timespan timespan
func (t *Timespan) Contains(timespan Timespan) bool {
	return TimeAfterOrEquals(timespan.Start, t.Start) && TimeBeforeOrEquals(timespan.End, t.End)
}

// NormalizeDay expands a timespan to whole-day granularity: start of the
// start day through the last instant of the end day
func (t *Timespan) NormalizeDay() Timespan {
	start := time.Date(t.Start.Year(), t.Start.Month(), t.Start.Day(), 0, 0, 0, 0, t.Start.Location())
	end := time.Date(t.End.Year(), t.End.Month(), t.End.Day(), 23, 59, 59, 0, t.End.Location())
	return Timespan{Start: start, End: end}
}

func minTime(a, b time.Time) time.Time {
	if a.Unix() < b.Unix() {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.Unix() > b.Unix() {
		return a
	}
	return b
}

// MergeTimespans merges Timespan structs together in case they overlap, they don't have to be presorted
func MergeTimespans(timespans []Timespan) []Timespan {
	if len(timespans) == 0 {
		return nil
	}

	sort.Slice(timespans, func(i, j int) bool {
		return timespans[i].Start.Before(timespans[j].Start)
	})

	index := 0

	for i := 1; i < len(timespans); i++ {
		if timespans[index].End.Unix() >= timespans[i].Start.Unix() {
			timespans[index].End = maxTime(timespans[index].End, timespans[i].End)
			timespans[index].Start = minTime(timespans[index].Start, timespans[i].Start)
		} else {
			index++
			timespans[index] = timespans[i]
		}
	}

	var mergedTimespans []Timespan
	for i := 0; i <= index; i++ {
		mergedTimespans = append(mergedTimespans, timespans[i])
	}

	return mergedTimespans
}
