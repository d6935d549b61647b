package calendar

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/collabhub-app/collabhub-client/pkg/communication"
	"github.com/collabhub-app/collabhub-client/pkg/logger"
)

const cacheKeyEvents = "events"

// Filter narrows an event list request
type Filter struct {
	From      time.Time
	To        time.Time
	EventType string
}

func (f *Filter) query() string {
	values := url.Values{}
	if !f.From.IsZero() {
		values.Set("startDate", f.From.Format("2006-01-02"))
	}
	if !f.To.IsZero() {
		values.Set("endDate", f.To.Format("2006-01-02"))
	}
	if f.EventType != "" {
		values.Set("type", f.EventType)
	}

	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// CreateRequest is validated client-side before any network call
type CreateRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	EventType   string `json:"eventType" validate:"required"`
	EventDate   string `json:"eventDate" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"startTime" validate:"required"`
	EndTime     string `json:"endTime,omitempty"`
	Location    string `json:"location,omitempty"`
	Department  string `json:"department,omitempty"`
}

// EventService fetches and creates calendar events
type EventService struct {
	Client *communication.Client
	Cache  *communication.ListCache
	Logger logger.Interface
}

// List fetches events, degrading to the cached list when the fetch fails
func (s *EventService) List(ctx context.Context, filter Filter) ([]Event, error) {
	data := struct {
		Events []eventWire `json:"events"`
	}{}
	err := s.Client.Get(ctx, "/calendar/events"+filter.query(), &data)
	if err != nil {
		cached, cacheErr := s.Cache.Get(cacheKeyEvents)
		if cacheErr == nil {
			s.Logger.Warning(fmt.Sprintf("event fetch failed, serving cached list: %v", err))
			return cached.([]Event), nil
		}
		return nil, err
	}

	events := make([]Event, 0, len(data.Events))
	for _, wire := range data.Events {
		events = append(events, normalizeEvent(wire))
	}

	s.Cache.Put(cacheKeyEvents, events)
	return events, nil
}

// Create adds an event
func (s *EventService) Create(ctx context.Context, request CreateRequest) (Event, error) {
	err := validator.New().Struct(&request)
	if err != nil {
		return Event{}, err
	}

	data := struct {
		Event eventWire `json:"event"`
	}{}
	err = s.Client.Post(ctx, "/calendar/events", &request, &data)
	if err != nil {
		return Event{}, err
	}

	return normalizeEvent(data.Event), nil
}
