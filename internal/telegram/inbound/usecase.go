package inbound

import (
	"context"

	"github.com/shandysiswandi/shopdesk/internal/telegram/entity"
	"github.com/shandysiswandi/shopdesk/internal/telegram/usecase"
)

type ucConsumer interface {
	DeliverNotification(ctx context.Context, in usecase.DeliverNotificationInput) error
}

type uc interface {
	ucConsumer

	ListBots(ctx context.Context) ([]entity.Bot, error)
	LinkBot(ctx context.Context, in usecase.LinkBotInput) (*entity.Bot, error)
	UnlinkBot(ctx context.Context, id int64) error
	Webhook(ctx context.Context, in usecase.WebhookInput) error
}
