package equipment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/collabhub-app/collabhub-client/pkg/communication"
	"github.com/collabhub-app/collabhub-client/pkg/date"
	"github.com/collabhub-app/collabhub-client/pkg/logger"
	"github.com/collabhub-app/collabhub-client/pkg/optimistic"
)

const cacheKeyEquipment = "equipment"

// ConflictError blocks a booking whose date range collides with existing
// bookings on the same equipment. The first conflict drives the message.
type ConflictError struct {
	Conflicts []Booking
}

func (e *ConflictError) Error() string {
	first := e.Conflicts[0]
	return fmt.Sprintf("equipment is already booked by %s from %s to %s",
		first.BookedBy,
		first.Period.Start.Format("2006-01-02"),
		first.Period.End.Format("2006-01-02"))
}

// BookingRequest is validated client-side before any network call
type BookingRequest struct {
	EquipmentID string    `json:"-" validate:"required"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate" validate:"required"`
	Purpose     string    `json:"purpose" validate:"required"`
}

// Span returns the requested period at whole-day granularity
func (r *BookingRequest) Span() date.Timespan {
	span := date.Timespan{Start: r.StartDate, End: r.EndDate}
	return span.NormalizeDay()
}

// EquipmentService owns the booking list and its optimistic mutations
type EquipmentService struct {
	Client     *communication.Client
	Controller *optimistic.Controller[Booking]
	Cache      *communication.ListCache
	Logger     logger.Interface
}

// NewEquipmentService constructs an EquipmentService
func NewEquipmentService(client *communication.Client, cache *communication.ListCache, logging logger.Interface) *EquipmentService {
	return &EquipmentService{
		Client:     client,
		Controller: optimistic.NewController[Booking](logging),
		Cache:      cache,
		Logger:     logging,
	}
}

// ListEquipment fetches the equipment catalog, degrading to the cached
// list when the fetch fails
func (s *EquipmentService) ListEquipment(ctx context.Context) ([]Equipment, error) {
	data := struct {
		Equipment []equipmentWire `json:"equipment"`
	}{}
	err := s.Client.Get(ctx, "/equipment", &data)
	if err != nil {
		cached, cacheErr := s.Cache.Get(cacheKeyEquipment)
		if cacheErr == nil {
			s.Logger.Warning(fmt.Sprintf("equipment fetch failed, serving cached list: %v", err))
			return cached.([]Equipment), nil
		}
		return nil, err
	}

	catalog := make([]Equipment, 0, len(data.Equipment))
	for _, wire := range data.Equipment {
		catalog = append(catalog, normalizeEquipment(wire))
	}

	s.Cache.Put(cacheKeyEquipment, catalog)
	return catalog, nil
}

// EquipmentRequest is validated client-side before any network call
type EquipmentRequest struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category" validate:"required"`
	Location string `json:"location,omitempty"`
}

// CreateEquipment registers a new piece of equipment in the catalog
func (s *EquipmentService) CreateEquipment(ctx context.Context, request EquipmentRequest) (Equipment, error) {
	err := validator.New().Struct(&request)
	if err != nil {
		return Equipment{}, err
	}

	data := struct {
		Equipment equipmentWire `json:"equipment"`
	}{}
	err = s.Client.Post(ctx, "/equipment", &request, &data)
	if err != nil {
		return Equipment{}, err
	}

	s.Cache.Invalidate(cacheKeyEquipment)
	return normalizeEquipment(data.Equipment), nil
}

type bookingListWire struct {
	Bookings []bookingWire `json:"bookings"`
}

// RefreshBookings fetches all active bookings and reconciles the collection
func (s *EquipmentService) RefreshBookings(ctx context.Context) ([]Booking, error) {
	data := bookingListWire{}
	err := s.Client.Get(ctx, "/equipment/bookings", &data)
	if err != nil {
		return nil, err
	}

	bookings := make([]Booking, 0, len(data.Bookings))
	ids := make([]string, 0, len(data.Bookings))
	for _, wire := range data.Bookings {
		booking := normalizeBooking(wire)
		bookings = append(bookings, booking)
		ids = append(ids, booking.ID)
	}

	s.Controller.Collection.ReplaceAll(ids, bookings)
	return bookings, nil
}

// MyBookings fetches the authenticated user's bookings
func (s *EquipmentService) MyBookings(ctx context.Context) ([]Booking, error) {
	data := bookingListWire{}
	err := s.Client.Get(ctx, "/equipment/bookings/me", &data)
	if err != nil {
		return nil, err
	}

	bookings := make([]Booking, 0, len(data.Bookings))
	for _, wire := range data.Bookings {
		bookings = append(bookings, normalizeBooking(wire))
	}
	return bookings, nil
}

// Bookings returns the current collection, pending entries included
func (s *EquipmentService) Bookings() []Booking {
	return s.Controller.Collection.Values()
}

// BookedRanges returns the merged booked periods for one piece of
// equipment, for availability display
func (s *EquipmentService) BookedRanges(equipmentID string) []date.Timespan {
	var spans []date.Timespan
	for _, booking := range s.Bookings() {
		if booking.EquipmentID == equipmentID {
			spans = append(spans, booking.Period.NormalizeDay())
		}
	}
	return date.MergeTimespans(spans)
}

// CheckConflicts runs the local conflict check against the known bookings.
// It is pure over the current collection; no request is made.
func (s *EquipmentService) CheckConflicts(request BookingRequest) ([]Booking, error) {
	candidate := date.Interval{ResourceID: request.EquipmentID, Span: request.Span()}
	err := candidate.Validate()
	if err != nil {
		return nil, err
	}

	bookings := s.Bookings()
	intervals := make([]date.Interval, 0, len(bookings))
	for _, booking := range bookings {
		intervals = append(intervals, booking.Interval())
	}

	var conflicts []Booking
	for _, conflict := range date.FindConflicts(candidate, intervals) {
		for _, booking := range bookings {
			if booking.Interval() == conflict {
				conflicts = append(conflicts, booking)
				break
			}
		}
	}
	return conflicts, nil
}

type availabilityWire struct {
	IsAvailable bool          `json:"isAvailable"`
	Conflicts   []bookingWire `json:"conflicts"`
}

// CheckAvailability asks the server to confirm the requested period is free
func (s *EquipmentService) CheckAvailability(ctx context.Context, request BookingRequest) (bool, []Booking, error) {
	body := struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}{
		StartDate: request.StartDate.Format("2006-01-02"),
		EndDate:   request.EndDate.Format("2006-01-02"),
	}

	data := availabilityWire{}
	err := s.Client.Post(ctx, "/equipment/"+request.EquipmentID+"/check-availability", &body, &data)
	if err != nil {
		return false, nil, err
	}

	conflicts := make([]Booking, 0, len(data.Conflicts))
	for _, wire := range data.Conflicts {
		conflicts = append(conflicts, normalizeBooking(wire))
	}
	return data.IsAvailable, conflicts, nil
}

// Book validates the request, refuses it while a conflict is flagged
// (locally first, then server-confirmed) and only then creates the booking
// optimistically.
func (s *EquipmentService) Book(ctx context.Context, request BookingRequest) (Booking, error) {
	err := validator.New().Struct(&request)
	if err != nil {
		return Booking{}, err
	}

	conflicts, err := s.CheckConflicts(request)
	if err != nil {
		return Booking{}, err
	}
	if len(conflicts) > 0 {
		return Booking{}, &ConflictError{Conflicts: conflicts}
	}

	available, remoteConflicts, err := s.CheckAvailability(ctx, request)
	if err != nil {
		return Booking{}, err
	}
	if !available {
		if len(remoteConflicts) == 0 {
			return Booking{}, fmt.Errorf("equipment is not available for the requested period")
		}
		return Booking{}, &ConflictError{Conflicts: remoteConflicts}
	}

	localID := optimistic.NewLocalID()
	provisional := Booking{
		ID:          localID,
		EquipmentID: request.EquipmentID,
		Purpose:     request.Purpose,
		Status:      "active",
		Period:      request.Span(),
	}

	return s.Controller.Create(ctx, localID, provisional, func(ctx context.Context) (string, Booking, error) {
		body := struct {
			StartDate string `json:"startDate"`
			EndDate   string `json:"endDate"`
			Purpose   string `json:"purpose"`
		}{
			StartDate: request.StartDate.Format("2006-01-02"),
			EndDate:   request.EndDate.Format("2006-01-02"),
			Purpose:   request.Purpose,
		}

		data := struct {
			Booking bookingWire `json:"booking"`
		}{}
		err := s.Client.Post(ctx, "/equipment/"+request.EquipmentID+"/bookings", &body, &data)
		if err != nil {
			return "", Booking{}, err
		}

		booking := normalizeBooking(data.Booking)
		return booking.ID, booking, nil
	})
}

// Cancel removes the booking optimistically
func (s *EquipmentService) Cancel(ctx context.Context, bookingID string) error {
	return s.Controller.Delete(ctx, bookingID, func(ctx context.Context) error {
		return s.Client.Delete(ctx, "/equipment/bookings/"+bookingID)
	})
}
