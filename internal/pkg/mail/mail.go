// Package mail sends email. SMTP delivers for real; Log only records what
// would have been sent, for environments without a relay.
package mail

import (
	"context"
	"io"
	"log/slog"
)

type Message struct {
	From     string
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
}

type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}

// Log is a Mail that writes a log line per message.
type Log struct{}

func (Log) Send(ctx context.Context, msg Message) error {
	slog.InfoContext(ctx, "mail: delivery disabled, message dropped", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (Log) Close() error { return nil }
