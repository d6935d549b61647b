package glossary

import (
	"strings"
	"time"
)

// Term is one glossary entry
type Term struct {
	ID         string    `json:"id"`
	Term       string    `json:"term"`
	Definition string    `json:"definition"`
	Category   string    `json:"category"`
	CreatedBy  string    `json:"createdBy"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Matches reports whether another entry names the same concept. Matching is
// case-insensitive on term and category so imports never duplicate entries
// that differ only in casing.
func (t *Term) Matches(other Term) bool {
	return strings.EqualFold(t.Term, other.Term) && strings.EqualFold(t.Category, other.Category)
}

type termWire struct {
	ID             string `json:"id"`
	Term           string `json:"term"`
	Definition     string `json:"definition"`
	Category       string `json:"category"`
	CreatedBy      string `json:"createdBy"`
	CreatedBySnake string `json:"created_by"`
	UpdatedAt      string `json:"updatedAt"`
	UpdatedAtSnake string `json:"updated_at"`
}

func normalizeTerm(wire termWire) Term {
	return Term{
		ID:         wire.ID,
		Term:       wire.Term,
		Definition: wire.Definition,
		Category:   wire.Category,
		CreatedBy:  firstNonEmpty(wire.CreatedBy, wire.CreatedBySnake),
		UpdatedAt:  parseWireTime(firstNonEmpty(wire.UpdatedAt, wire.UpdatedAtSnake)),
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
