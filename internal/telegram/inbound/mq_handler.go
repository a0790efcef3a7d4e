package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/messaging"
	"github.com/shandysiswandi/shopdesk/internal/pkg/uid"
	"github.com/shandysiswandi/shopdesk/internal/shared/event"
	"github.com/shandysiswandi/shopdesk/internal/telegram/usecase"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   ucConsumer
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) NotificationCreated(ctx context.Context, msg messaging.Message) error {
	cID := msg.Header(keyOfCorrelationID)
	if cID == "" {
		cID = h.uuid.Generate()
	}
	ctx = instrument.SetCorrelationID(ctx, cID)

	ctx, span := h.ins.Tracer("telegram.inbound.mq").Start(ctx, "NotificationCreated")
	defer span.End()

	var payload event.NotificationCreatedMessage
	if err := json.Unmarshal(msg.Body(), &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of notification created", "msg_id", msg.ID(), "error", err)
		return nil
	}

	return h.uc.DeliverNotification(ctx, usecase.DeliverNotificationInput{
		ID:      payload.ID,
		UserID:  payload.UserID,
		Type:    payload.Type,
		Title:   payload.Title,
		Message: payload.Message,
	})
}
