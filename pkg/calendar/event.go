package calendar

import "time"

// Event is a calendar entry: a meeting, a delivery or a milestone
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventType   string    `json:"eventType"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Location    string    `json:"location"`
	Department  string    `json:"department"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type eventWire struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	EventType      string `json:"eventType"`
	EventTypeSnake string `json:"event_type"`
	EventDate      string `json:"eventDate"`
	EventDateSnake string `json:"event_date"`
	StartTime      string `json:"startTime"`
	StartTimeSnake string `json:"start_time"`
	EndTime        string `json:"endTime"`
	EndTimeSnake   string `json:"end_time"`
	Location       string `json:"location"`
	Department     string `json:"department"`
	UpdatedAt      string `json:"updatedAt"`
	UpdatedAtSnake string `json:"updated_at"`
}

// normalizeEvent converts the wire shape into the internal model. The
// backend splits an event into a date and clock times; the client works
// with absolute timestamps.
func normalizeEvent(wire eventWire) Event {
	day := firstNonEmpty(wire.EventDate, wire.EventDateSnake)

	return Event{
		ID:          wire.ID,
		Title:       wire.Title,
		Description: wire.Description,
		EventType:   firstNonEmpty(wire.EventType, wire.EventTypeSnake),
		StartsAt:    combineDayAndClock(day, firstNonEmpty(wire.StartTime, wire.StartTimeSnake)),
		EndsAt:      combineDayAndClock(day, firstNonEmpty(wire.EndTime, wire.EndTimeSnake)),
		Location:    wire.Location,
		Department:  wire.Department,
		UpdatedAt:   parseWireTime(firstNonEmpty(wire.UpdatedAt, wire.UpdatedAtSnake)),
	}
}

func combineDayAndClock(day string, clock string) time.Time {
	if day == "" {
		return time.Time{}
	}
	if clock == "" {
		clock = "00:00"
	}

	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		parsed, err := time.ParseInLocation(layout, day+" "+clock, time.Local)
		if err == nil {
			return parsed
		}
	}
	return parseWireTime(day)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func parseWireTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed
		}
	}
	return time.Time{}
}
