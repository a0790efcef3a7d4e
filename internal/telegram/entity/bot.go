package entity

import "time"

// Bot is a Telegram bot a user linked to receive notifications. The token is
// kept sealed.
type Bot struct {
	ID            int64
	UserID        string
	Label         string
	TokenEnc      []byte
	WebhookSecret string
	ChatID        *int64
	Enabled       bool
	CreatedAt     time.Time
}

// Deliverable reports whether notifications can be pushed to the bot.
func (b Bot) Deliverable() bool {
	return b.Enabled && b.ChatID != nil
}

type CreateBot struct {
	UserID        string
	Label         string
	TokenEnc      []byte
	WebhookSecret string
}
