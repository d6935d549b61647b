package equipment

import (
	"time"

	"github.com/collabhub-app/collabhub-client/pkg/date"
)

// Equipment status values
const (
	StatusAvailable   = "available"
	StatusBooked      = "booked"
	StatusInUse       = "in-use"
	StatusMaintenance = "maintenance"
)

// Equipment is a bookable piece of hardware
type Equipment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Location string `json:"location"`
	Status   string `json:"status"`
}

// Bookable reports whether new bookings are accepted for this equipment
func (e *Equipment) Bookable() bool {
	return e.Status != StatusMaintenance && e.Status != StatusInUse
}

// Booking reserves equipment for a whole-day date range
type Booking struct {
	ID            string        `json:"id"`
	EquipmentID   string        `json:"equipmentId"`
	EquipmentName string        `json:"equipmentName"`
	BookedBy      string        `json:"bookedBy"`
	Department    string        `json:"department"`
	Purpose       string        `json:"purpose"`
	Status        string        `json:"status"`
	Period        date.Timespan `json:"period"`
}

// Interval maps the booking onto the conflict checker's model. Bookings are
// whole-day granular, so the period is normalized before any comparison.
func (b *Booking) Interval() date.Interval {
	return date.Interval{
		ResourceID: b.EquipmentID,
		Span:       b.Period.NormalizeDay(),
	}
}

type equipmentWire struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Location string `json:"location"`
	Status   string `json:"status"`
}

func normalizeEquipment(wire equipmentWire) Equipment {
	return Equipment(wire)
}

type bookingWire struct {
	ID                 string `json:"id"`
	EquipmentID        string `json:"equipmentId"`
	EquipmentIDSnake   string `json:"equipment_id"`
	EquipmentName      string `json:"equipmentName"`
	EquipmentNameSnake string `json:"equipment_name"`
	BookedBy           string `json:"bookedBy"`
	BookedBySnake      string `json:"booked_by"`
	Department         string `json:"department"`
	Purpose            string `json:"purpose"`
	Status             string `json:"status"`
	StartDate          string `json:"startDate"`
	StartDateSnake     string `json:"start_date"`
	EndDate            string `json:"endDate"`
	EndDateSnake       string `json:"end_date"`
}

func normalizeBooking(wire bookingWire) Booking {
	return Booking{
		ID:            wire.ID,
		EquipmentID:   firstNonEmpty(wire.EquipmentID, wire.EquipmentIDSnake),
		EquipmentName: firstNonEmpty(wire.EquipmentName, wire.EquipmentNameSnake),
		BookedBy:      firstNonEmpty(wire.BookedBy, wire.BookedBySnake),
		Department:    wire.Department,
		Purpose:       wire.Purpose,
		Status:        wire.Status,
		Period: date.Timespan{
			Start: parseWireTime(firstNonEmpty(wire.StartDate, wire.StartDateSnake)),
			End:   parseWireTime(firstNonEmpty(wire.EndDate, wire.EndDateSnake)),
		},
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
