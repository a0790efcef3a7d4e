package inbound

import (
	"time"

	"github.com/shandysiswandi/shopdesk/internal/telegram/entity"
)

type LinkBotRequest struct {
	BotToken string `json:"bot_token"`
	Label    string `json:"label"`
}

// BotResponse never carries the token or the webhook secret.
type BotResponse struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label"`
	Linked    bool      `json:"linked"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

func toBotResponse(b entity.Bot) BotResponse {
	return BotResponse{
		ID:        b.ID,
		Label:     b.Label,
		Linked:    b.ChatID != nil,
		Enabled:   b.Enabled,
		CreatedAt: b.CreatedAt,
	}
}
