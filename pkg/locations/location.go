package locations

import "time"

// Presence describes where a user currently is
type Presence struct {
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	Department  string    `json:"department"`
	Location    string    `json:"location"`
	Note        string    `json:"note"`
	CheckedInAt time.Time `json:"checkedInAt"`
}

// HistoryEntry is one completed or ongoing check-in
type HistoryEntry struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Location     string    `json:"location"`
	Note         string    `json:"note"`
	CheckedInAt  time.Time `json:"checkedInAt"`
	CheckedOutAt time.Time `json:"checkedOutAt"`
}

// Active reports whether the entry has no check-out yet
func (e *HistoryEntry) Active() bool {
	return e.CheckedOutAt.IsZero()
}

type presenceWire struct {
	UserID           string `json:"userId"`
	UserIDSnake      string `json:"user_id"`
	DisplayName      string `json:"displayName"`
	DisplayNameSnake string `json:"display_name"`
	Name             string `json:"name"`
	Department       string `json:"department"`
	Location         string `json:"location"`
	Note             string `json:"note"`
	CheckedInAt      string `json:"checkedInAt"`
	CheckedInAtSnake string `json:"checked_in_at"`
}

func normalizePresence(wire presenceWire) Presence {
	return Presence{
		UserID:      firstNonEmpty(wire.UserID, wire.UserIDSnake),
		DisplayName: firstNonEmpty(wire.DisplayName, wire.DisplayNameSnake, wire.Name),
		Department:  wire.Department,
		Location:    wire.Location,
		Note:        wire.Note,
		CheckedInAt: parseWireTime(firstNonEmpty(wire.CheckedInAt, wire.CheckedInAtSnake)),
	}
}

type historyWire struct {
	ID                string `json:"id"`
	UserID            string `json:"userId"`
	UserIDSnake       string `json:"user_id"`
	Location          string `json:"location"`
	Note              string `json:"note"`
	CheckedInAt       string `json:"checkedInAt"`
	CheckedInAtSnake  string `json:"checked_in_at"`
	CheckedOutAt      string `json:"checkedOutAt"`
	CheckedOutAtSnake string `json:"checked_out_at"`
}

func normalizeHistoryEntry(wire historyWire) HistoryEntry {
	return HistoryEntry{
		ID:           wire.ID,
		UserID:       firstNonEmpty(wire.UserID, wire.UserIDSnake),
		Location:     wire.Location,
		Note:         wire.Note,
		CheckedInAt:  parseWireTime(firstNonEmpty(wire.CheckedInAt, wire.CheckedInAtSnake)),
		CheckedOutAt: parseWireTime(firstNonEmpty(wire.CheckedOutAt, wire.CheckedOutAtSnake)),
	}
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
