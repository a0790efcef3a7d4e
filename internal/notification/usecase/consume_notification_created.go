package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/pkg/valueobject"
)

type ConsumeNotificationCreatedInput struct {
	ID        int64
	UserID    *string
	Type      string
	Title     string
	Message   string
	Metadata  valueobject.JSONMap
	CreatedAt time.Time
}

func (s *Usecase) ConsumeNotificationCreated(ctx context.Context, in ConsumeNotificationCreatedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeNotificationCreated")
	defer span.End()

	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.clock.Now()
	}

	sent := s.publishNotification(StreamEvent{
		ID:        in.ID,
		UserID:    in.UserID,
		Type:      in.Type,
		Title:     in.Title,
		Message:   in.Message,
		Metadata:  in.Metadata,
		CreatedAt: createdAt,
	})

	slog.DebugContext(ctx, "notification streamed", "notification_id", in.ID, "subscribers", sent)
	return nil
}
