package date

import (
	"fmt"
	"reflect"
	"testing"
	"time"
)

func timeDate(year int, month time.Month, day int, hour int, min int, seconds int) time.Time {
	loc, _ := time.LoadLocation("Local")
	return time.Date(year, month, day, hour, min, seconds, 0, loc)
}

func TestTimespan_Overlaps(t *testing.T) {
	var overlapTests = []struct {
		a   Timespan
		b   Timespan
		out bool
	}{
		{
			// Case disjoint
			Timespan{Start: timeDate(2025, 11, 1, 0, 0, 0), End: timeDate(2025, 11, 3, 0, 0, 0)},
			Timespan{Start: timeDate(2025, 11, 4, 0, 0, 0), End: timeDate(2025, 11, 6, 0, 0, 0)},
			false,
		},
		{
			// Case contained
			Timespan{Start: timeDate(2025, 11, 1, 0, 0, 0), End: timeDate(2025, 11, 10, 0, 0, 0)},
			Timespan{Start: timeDate(2025, 11, 4, 0, 0, 0), End: timeDate(2025, 11, 6, 0, 0, 0)},
			true,
		},
		{
			// Case shared boundary day counts as overlap
			Timespan{Start: timeDate(2025, 11, 1, 0, 0, 0), End: timeDate(2025, 11, 5, 0, 0, 0)},
			Timespan{Start: timeDate(2025, 11, 5, 0, 0, 0), End: timeDate(2025, 11, 7, 0, 0, 0)},
			true,
		},
		{
			// Case zero-width span inside another
			Timespan{Start: timeDate(2025, 11, 5, 0, 0, 0), End: timeDate(2025, 11, 5, 0, 0, 0)},
			Timespan{Start: timeDate(2025, 11, 5, 0, 0, 0), End: timeDate(2025, 11, 7, 0, 0, 0)},
			true,
		},
		{
			// Case two equal zero-width spans
			Timespan{Start: timeDate(2025, 11, 5, 0, 0, 0), End: timeDate(2025, 11, 5, 0, 0, 0)},
			Timespan{Start: timeDate(2025, 11, 5, 0, 0, 0), End: timeDate(2025, 11, 5, 0, 0, 0)},
			true,
		},
		{
			// Case partial overlap
			Timespan{Start: timeDate(2025, 11, 1, 0, 0, 0), End: timeDate(2025, 11, 5, 0, 0, 0)},
			Timespan{Start: timeDate(2025, 11, 4, 0, 0, 0), End: timeDate(2025, 11, 9, 0, 0, 0)},
			true,
		},
	}

	for index, tt := range overlapTests {
		t.Run(fmt.Sprintf("Case %d", index), func(t *testing.T) {
			got := tt.a.Overlaps(tt.b)
			if got != tt.out {
				t.Errorf("got %v, want %v", got, tt.out)
			}

			// Overlap is symmetric
			mirrored := tt.b.Overlaps(tt.a)
			if mirrored != got {
				t.Errorf("overlap not symmetric: a/b %v, b/a %v", got, mirrored)
			}
		})
	}
}

func TestTimespan_NormalizeDay(t *testing.T) {
	span := Timespan{Start: timeDate(2025, 11, 10, 14, 23, 5), End: timeDate(2025, 11, 12, 9, 1, 0)}
	normalized := span.NormalizeDay()

	want := Timespan{Start: timeDate(2025, 11, 10, 0, 0, 0), End: timeDate(2025, 11, 12, 23, 59, 59)}
	if !reflect.DeepEqual(normalized, want) {
		t.Errorf("got %q, want %q", normalized.String(), want.String())
	}
}

func TestTimespan_IsValid(t *testing.T) {
	valid := Timespan{Start: timeDate(2025, 11, 10, 0, 0, 0), End: timeDate(2025, 11, 10, 0, 0, 0)}
	if !valid.IsValid() {
		t.Errorf("zero-width span should be valid")
	}

	invalid := Timespan{Start: timeDate(2025, 11, 11, 0, 0, 0), End: timeDate(2025, 11, 10, 0, 0, 0)}
	if invalid.IsValid() {
		t.Errorf("span with start after end should be invalid")
	}
}

func TestMergeTimespans(t *testing.T) {
	var mergeTests = []struct {
		in  []Timespan
		out []Timespan
	}{
		{
			// Case overlapping pair
			[]Timespan{
				{Start: timeDate(2025, 11, 1, 0, 0, 0), End: timeDate(2025, 11, 4, 0, 0, 0)},
				{Start: timeDate(2025, 11, 3, 0, 0, 0), End: timeDate(2025, 11, 6, 0, 0, 0)},
			},
			[]Timespan{
				{Start: timeDate(2025, 11, 1, 0, 0, 0), End: timeDate(2025, 11, 6, 0, 0, 0)},
			},
		},
		{
			// Case disjoint unsorted
			[]Timespan{
				{Start: timeDate(2025, 11, 8, 0, 0, 0), End: timeDate(2025, 11, 9, 0, 0, 0)},
				{Start: timeDate(2025, 11, 1, 0, 0, 0), End: timeDate(2025, 11, 2, 0, 0, 0)},
			},
			[]Timespan{
				{Start: timeDate(2025, 11, 1, 0, 0, 0), End: timeDate(2025, 11, 2, 0, 0, 0)},
				{Start: timeDate(2025, 11, 8, 0, 0, 0), End: timeDate(2025, 11, 9, 0, 0, 0)},
			},
		},
		{
			// Case empty
			nil,
			nil,
		},
	}

	for index, tt := range mergeTests {
		t.Run(fmt.Sprintf("Case %d", index), func(t *testing.T) {
			got := MergeTimespans(tt.in)
			if !reflect.DeepEqual(got, tt.out) {
				t.Errorf("got %v, want %v", got, tt.out)
			}
		})
	}
}
