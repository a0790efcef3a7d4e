package inbound

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/notification/usecase"
	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/messaging"
	"github.com/shandysiswandi/shopdesk/internal/pkg/uid"
	"github.com/shandysiswandi/shopdesk/internal/pkg/valueobject"
	"github.com/shandysiswandi/shopdesk/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   ucConsumer
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cID := msg.Header(keyOfCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) NotificationCreated(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "NotificationCreated")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: notification created", "msg_id", msg.ID())

	var payload event.NotificationCreatedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of notification created", "msg_body", string(body), "error", err)
		return nil
	}

	var createdAt time.Time
	if payload.CreatedAt > 0 {
		createdAt = time.Unix(payload.CreatedAt, 0)
	}

	if err := h.uc.ConsumeNotificationCreated(ctx, usecase.ConsumeNotificationCreatedInput{
		ID:        payload.ID,
		UserID:    payload.UserID,
		Type:      payload.Type,
		Title:     payload.Title,
		Message:   payload.Message,
		Metadata:  valueobject.JSONMap(payload.Metadata),
		CreatedAt: createdAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume notification created", "notification_id", payload.ID, "error", err)
		return err
	}

	return nil
}
