package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/telegram/entity"
)

func (s *Usecase) ListBots(ctx context.Context) ([]entity.Bot, error) {
	ctx, span := s.startSpan(ctx, "ListBots")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	bots, err := s.repoDB.ListBots(ctx, clm.UserID())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list telegram bots", "error", err)
		return nil, goerror.NewServer(err)
	}

	return bots, nil
}

type LinkBotInput struct {
	BotToken string `validate:"required,notblank,contains=:,max=100"`
	Label    string `validate:"required,notblank,max=100"`
}

// LinkBot stores a sealed bot token and points the bot webhook at this
// service. The row is removed again when Telegram refuses the webhook.
func (s *Usecase) LinkBot(ctx context.Context, in LinkBotInput) (*entity.Bot, error) {
	ctx, span := s.startSpan(ctx, "LinkBot")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	in.BotToken = strings.TrimSpace(in.BotToken)
	in.Label = strings.TrimSpace(in.Label)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	enc, err := s.crypt.Encrypt([]byte(in.BotToken), s.scope(clm.UserID()))
	if err != nil {
		slog.ErrorContext(ctx, "failed to encrypt bot token", "error", err)
		return nil, goerror.NewServer(err)
	}

	b, err := s.repoDB.CreateBot(ctx, entity.CreateBot{
		UserID:        clm.UserID(),
		Label:         in.Label,
		TokenEnc:      enc,
		WebhookSecret: s.secret.Generate(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create telegram bot", "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.bot.SetWebhook(ctx, in.BotToken, s.webhookURL(b.ID), b.WebhookSecret); err != nil {
		slog.ErrorContext(ctx, "failed to set telegram webhook", "bot_id", b.ID, "error", err)
		if derr := s.repoDB.DeleteBot(context.WithoutCancel(ctx), clm.UserID(), b.ID); derr != nil {
			slog.ErrorContext(ctx, "failed to repo delete telegram bot", "bot_id", b.ID, "error", derr)
		}
		return nil, goerror.NewServer(err)
	}

	return &b, nil
}

func (s *Usecase) webhookURL(id int64) string {
	base := strings.TrimRight(s.cfg.GetString("modules.telegram.webhook_base_url"), "/")
	return fmt.Sprintf("%s/api/v1/telegram/webhook/%d", base, id)
}

// UnlinkBot drops the webhook and the row. Webhook errors are only logged.
func (s *Usecase) UnlinkBot(ctx context.Context, id int64) error {
	ctx, span := s.startSpan(ctx, "UnlinkBot")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return err
	}

	b, err := s.repoDB.GetBot(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) || (err == nil && b.UserID != clm.UserID()) {
		return goerror.NewBusiness("Bot not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get telegram bot", "bot_id", id, "error", err)
		return goerror.NewServer(err)
	}

	if token, err := s.token(b); err != nil {
		slog.WarnContext(ctx, "failed to decrypt bot token", "bot_id", id, "error", err)
	} else if err := s.bot.DeleteWebhook(ctx, token); err != nil {
		slog.WarnContext(ctx, "failed to delete telegram webhook", "bot_id", id, "error", err)
	}

	err = s.repoDB.DeleteBot(ctx, clm.UserID(), id)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Bot not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete telegram bot", "bot_id", id, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
