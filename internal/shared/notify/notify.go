// Package notify writes in-app notifications and announces them on the
// notification.created topic so live streams and Telegram bots can pick
// them up.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/messaging"
	"github.com/shandysiswandi/shopdesk/internal/pkg/valueobject"
	"github.com/shandysiswandi/shopdesk/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Notification is a row to create. An empty UserID makes it global.
type Notification struct {
	UserID   string
	Type     string
	Title    string
	Message  string
	Metadata valueobject.JSONMap
}

// Sender is what producers depend on.
type Sender interface {
	Notify(ctx context.Context, n Notification) (int64, error)
}

type Notifier struct {
	db  queryRower
	pub messaging.Publisher
	ins instrument.Instrumentation
}

func New(db queryRower, pub messaging.Publisher, ins instrument.Instrumentation) *Notifier {
	return &Notifier{db: db, pub: pub, ins: ins}
}

// Notify inserts the notification and publishes it. The row is the source of
// truth: a publish failure is logged and does not fail the call.
func (n *Notifier) Notify(ctx context.Context, in Notification) (int64, error) {
	ctx, span := n.ins.Tracer("notify").Start(ctx, "Notify")
	defer span.End()

	if in.Metadata == nil {
		in.Metadata = valueobject.JSONMap{}
	}

	var userID *string
	if in.UserID != "" {
		userID = &in.UserID
	}

	var (
		id        int64
		createdAt time.Time
	)
	err := n.db.QueryRow(ctx, `
		insert into notifications (user_id, type, title, message, metadata)
		values ($1, $2, $3, $4, $5)
		returning id, created_at`,
		userID, in.Type, in.Title, in.Message, in.Metadata,
	).Scan(&id, &createdAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	body, err := json.Marshal(event.NotificationCreatedMessage{
		ID:        id,
		UserID:    userID,
		Type:      in.Type,
		Title:     in.Title,
		Message:   in.Message,
		Metadata:  in.Metadata,
		CreatedAt: createdAt.Unix(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal notification created", "notification_id", id, "error", err)
		return id, nil
	}

	if err := n.pub.Publish(ctx, event.NotificationCreatedDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: map[string]string{keyOfCorrelationID: instrument.GetCorrelationID(ctx)},
	}); err != nil {
		span.RecordError(err)
		slog.WarnContext(ctx, "failed to publish notification created", "notification_id", id, "error", err)
	}

	return id, nil
}
