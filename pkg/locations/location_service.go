package locations

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/collabhub-app/collabhub-client/pkg/communication"
	"github.com/collabhub-app/collabhub-client/pkg/logger"
)

// CheckInRequest is validated client-side before any network call
type CheckInRequest struct {
	Location string `json:"location" validate:"required"`
	Note     string `json:"note,omitempty"`
}

// LocationService tracks who is where via check-ins and check-outs
type LocationService struct {
	Client *communication.Client
	Logger logger.Interface
}

// Current fetches everyone who is checked in right now
func (s *LocationService) Current(ctx context.Context) ([]Presence, error) {
	data := struct {
		Locations []presenceWire `json:"locations"`
	}{}
	err := s.Client.Get(ctx, "/locations/current", &data)
	if err != nil {
		return nil, err
	}

	presences := make([]Presence, 0, len(data.Locations))
	for _, wire := range data.Locations {
		presences = append(presences, normalizePresence(wire))
	}
	return presences, nil
}

// MyStatus returns the caller's latest check-in, or ok=false when the
// caller has never checked in or is checked out.
func (s *LocationService) MyStatus(ctx context.Context) (HistoryEntry, bool, error) {
	entries, err := s.History(ctx, 1)
	if err != nil {
		return HistoryEntry{}, false, err
	}
	if len(entries) == 0 || !entries[0].Active() {
		return HistoryEntry{}, false, nil
	}
	return entries[0], true, nil
}

// History fetches the caller's most recent check-ins, newest first
func (s *LocationService) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	path := "/locations/history/me"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	data := struct {
		History []historyWire `json:"history"`
	}{}
	err := s.Client.Get(ctx, path, &data)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(data.History))
	for _, wire := range data.History {
		entries = append(entries, normalizeHistoryEntry(wire))
	}
	return entries, nil
}

// AllHistory fetches the check-in history across all users, newest first
func (s *LocationService) AllHistory(ctx context.Context) ([]HistoryEntry, error) {
	data := struct {
		History []historyWire `json:"history"`
	}{}
	err := s.Client.Get(ctx, "/locations/all", &data)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(data.History))
	for _, wire := range data.History {
		entries = append(entries, normalizeHistoryEntry(wire))
	}
	return entries, nil
}

// CheckIn registers the caller at a location
func (s *LocationService) CheckIn(ctx context.Context, request CheckInRequest) (HistoryEntry, error) {
	err := validator.New().Struct(&request)
	if err != nil {
		return HistoryEntry{}, err
	}

	data := struct {
		Entry historyWire `json:"entry"`
	}{}
	err = s.Client.Post(ctx, "/locations/check-in", &request, &data)
	if err != nil {
		return HistoryEntry{}, err
	}
	return normalizeHistoryEntry(data.Entry), nil
}

// CheckOut closes the caller's active check-in
func (s *LocationService) CheckOut(ctx context.Context) error {
	return s.Client.Post(ctx, "/locations/check-out", nil, nil)
}
