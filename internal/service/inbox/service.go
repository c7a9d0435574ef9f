package inbox

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nonthaphat-dev/lendwatch/internal/domain"
)

// unreadListLimit caps the bell dropdown; the full history view passes
// includeRead and is not capped.
const unreadListLimit = 10

// Service is the recipient-facing read surface over the notification store:
// listing rendered alerts and dismissing them. Dismissal is scoped to the
// requesting recipient, never cross-user.
type Service struct {
	store domain.NotificationStore
}

func NewService(store domain.NotificationStore) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, recipientID int64, includeRead bool) ([]Rendered, error) {
	limit := unreadListLimit
	if includeRead {
		limit = 0
	}

	notifications, err := s.store.ListForRecipient(ctx, recipientID, includeRead, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	rendered := make([]Rendered, 0, len(notifications))
	for i := range notifications {
		rendered = append(rendered, Render(&notifications[i]))
	}
	return rendered, nil
}

// Dismiss marks one notification read on behalf of its recipient.
func (s *Service) Dismiss(ctx context.Context, notificationID, actorID int64) error {
	if err := s.store.MarkRead(ctx, notificationID, actorID); err != nil {
		return err
	}
	slog.DebugContext(ctx, "notification dismissed",
		slog.Int64("notification_id", notificationID),
		slog.Int64("recipient_id", actorID),
	)
	return nil
}
