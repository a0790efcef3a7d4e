package usecase

import (
	"context"
	"sync"

	"github.com/shandysiswandi/shopdesk/internal/notification/entity"
	"github.com/shandysiswandi/shopdesk/internal/pkg/clock"
	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	ListNotifications(ctx context.Context, userID string, status entity.NotificationStatus, limit, offset int32) ([]entity.Notification, error)
	CountNotifications(ctx context.Context, userID string, status entity.NotificationStatus) (int64, error)
	MarkNotificationRead(ctx context.Context, userID string, id int64) (bool, error)
	MarkNotificationsReadAll(ctx context.Context, userID string) (int64, error)
	SoftDeleteNotification(ctx context.Context, userID string, id int64) (bool, error)
}

type Usecase struct {
	repoDB    repoDB
	clock     clock.Clocker
	validator validator.Validator
	ins       instrument.Instrumentation
	streamMu  sync.RWMutex
	streams   map[string]map[*subscriber]struct{}
}

type Dependency struct {
	RepoDB     repoDB
	Clock      clock.Clocker
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

func NewNotification(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		clock:     dep.Clock,
		validator: dep.Validator,
		ins:       dep.Instrument,
		streams:   make(map[string]map[*subscriber]struct{}),
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}
