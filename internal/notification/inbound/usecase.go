package inbound

import (
	"context"

	"github.com/shandysiswandi/shopdesk/internal/notification/usecase"
)

type ucConsumer interface {
	ConsumeNotificationCreated(ctx context.Context, in usecase.ConsumeNotificationCreatedInput) error
}

type ucStream interface {
	StreamNotifications(ctx context.Context, userID string) <-chan usecase.StreamEvent
}

type uc interface {
	ucConsumer
	ucStream

	ListInbox(ctx context.Context, in usecase.ListInboxInput) (*usecase.ListInboxOutput, error)
	CountUnread(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, in usecase.MarkReadInput) error
	MarkAllRead(ctx context.Context) (int64, error)
	Delete(ctx context.Context, in usecase.DeleteInput) error
}
