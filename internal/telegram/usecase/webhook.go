package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/telegram"
)

const startReply = "Notifications activées. Vous recevrez ici les alertes de la boutique."

type WebhookInput struct {
	BotID  int64
	Secret string
	Update telegram.Update
}

func errInvalidWebhookSecret() error {
	return goerror.NewBusiness("Invalid webhook secret", goerror.CodeUnauthorized, goerror.WithReason("INVALID_WEBHOOK_SECRET"))
}

// Webhook handles an update sent by Telegram. /start binds the chat to the
// bot, every other message is ignored.
func (s *Usecase) Webhook(ctx context.Context, in WebhookInput) error {
	ctx, span := s.startSpan(ctx, "Webhook")
	defer span.End()

	b, err := s.repoDB.GetBot(ctx, in.BotID)
	if errors.Is(err, goerror.ErrNotFound) {
		return errInvalidWebhookSecret()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get telegram bot", "bot_id", in.BotID, "error", err)
		return goerror.NewServer(err)
	}

	if in.Secret == "" || subtle.ConstantTimeCompare([]byte(in.Secret), []byte(b.WebhookSecret)) != 1 {
		return errInvalidWebhookSecret()
	}

	msg := in.Update.Message
	if msg == nil || !isStart(msg.Text) {
		return nil
	}

	if err := s.repoDB.SetChatID(ctx, b.ID, msg.Chat.ID); err != nil {
		slog.ErrorContext(ctx, "failed to repo set telegram chat", "bot_id", b.ID, "error", err)
		return goerror.NewServer(err)
	}

	token, err := s.token(b)
	if err != nil {
		slog.ErrorContext(ctx, "failed to decrypt bot token", "bot_id", b.ID, "error", err)
		return nil
	}
	if err := s.bot.SendMessage(ctx, token, msg.Chat.ID, startReply); err != nil {
		slog.WarnContext(ctx, "failed to reply to /start", "bot_id", b.ID, "error", err)
	}

	return nil
}

// isStart matches "/start", "/start payload" and "/start@BotName".
func isStart(text string) bool {
	cmd, _, _ := strings.Cut(strings.TrimSpace(text), " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd == "/start"
}
