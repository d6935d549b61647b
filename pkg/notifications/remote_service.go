package notifications

import (
	"context"
	"strconv"
	"time"

	"github.com/collabhub-app/collabhub-client/pkg/communication"
	"github.com/collabhub-app/collabhub-client/pkg/logger"
)

// ServerNotification is an alert created by the backend, separate from the
// locally generated ones
type ServerNotification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Level     string    `json:"level"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

type serverNotificationWire struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	Level          string `json:"type"`
	IsRead         *bool  `json:"isRead"`
	IsReadSnake    *bool  `json:"is_read"`
	CreatedAt      string `json:"createdAt"`
	CreatedAtSnake string `json:"created_at"`
}

func normalizeServerNotification(wire serverNotificationWire) ServerNotification {
	notification := ServerNotification{
		ID:      wire.ID,
		Title:   wire.Title,
		Message: wire.Message,
		Level:   wire.Level,
	}

	if wire.IsRead != nil {
		notification.IsRead = *wire.IsRead
	} else if wire.IsReadSnake != nil {
		notification.IsRead = *wire.IsReadSnake
	}

	created := wire.CreatedAt
	if created == "" {
		created = wire.CreatedAtSnake
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		parsed, err := time.Parse(layout, created)
		if err == nil {
			notification.CreatedAt = parsed
			break
		}
	}

	return notification
}

// RemoteService fetches and acknowledges backend notifications
type RemoteService struct {
	Client *communication.Client
	Logger logger.Interface
}

// List fetches the caller's backend notifications
func (s *RemoteService) List(ctx context.Context, unreadOnly bool) ([]ServerNotification, error) {
	path := "/notifications"
	if unreadOnly {
		path += "?unread=" + strconv.FormatBool(true)
	}

	data := struct {
		Notifications []serverNotificationWire `json:"notifications"`
	}{}
	err := s.Client.Get(ctx, path, &data)
	if err != nil {
		return nil, err
	}

	notifications := make([]ServerNotification, 0, len(data.Notifications))
	for _, wire := range data.Notifications {
		notifications = append(notifications, normalizeServerNotification(wire))
	}
	return notifications, nil
}

// UnreadCount fetches the number of unread backend notifications
func (s *RemoteService) UnreadCount(ctx context.Context) (int, error) {
	data := struct {
		Count int `json:"count"`
	}{}
	err := s.Client.Get(ctx, "/notifications/unread-count", &data)
	if err != nil {
		return 0, err
	}
	return data.Count, nil
}

// MarkRead acknowledges one notification
func (s *RemoteService) MarkRead(ctx context.Context, id string) error {
	return s.Client.Patch(ctx, "/notifications/"+id+"/read", nil, nil)
}

// MarkAllRead acknowledges every notification
func (s *RemoteService) MarkAllRead(ctx context.Context) error {
	return s.Client.Patch(ctx, "/notifications/read-all", nil, nil)
}
