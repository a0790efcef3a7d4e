package usecase

import (
	"context"
	"html"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shandysiswandi/shopdesk/internal/telegram/entity"
)

type DeliverNotificationInput struct {
	ID      int64
	UserID  *string
	Type    string
	Title   string
	Message string
}

// DeliverNotification pushes a notification to the owner's bots, or to every
// bot for a global notification. A failing bot does not stop the others.
func (s *Usecase) DeliverNotification(ctx context.Context, in DeliverNotificationInput) error {
	ctx, span := s.startSpan(ctx, "DeliverNotification")
	defer span.End()

	bots, err := s.repoDB.ListDeliverableBots(ctx, in.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list deliverable bots", "notification_id", in.ID, "error", err)
		return err
	}

	bots = lo.Filter(bots, func(b entity.Bot, _ int) bool { return b.Deliverable() })
	if len(bots) == 0 {
		return nil
	}

	text := "<b>" + html.EscapeString(in.Title) + "</b>"
	if in.Message != "" {
		text += "\n" + html.EscapeString(in.Message)
	}

	for _, b := range bots {
		token, err := s.token(b)
		if err != nil {
			slog.ErrorContext(ctx, "failed to decrypt bot token", "bot_id", b.ID, "error", err)
			continue
		}
		if err := s.bot.SendMessage(ctx, token, *b.ChatID, text); err != nil {
			slog.WarnContext(ctx, "failed to deliver telegram notification",
				"bot_id", b.ID, "notification_id", in.ID, "error", err)
		}
	}

	return nil
}
