package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/agenda/entity"
	"github.com/shandysiswandi/shopdesk/internal/pkg/clock"
	"github.com/shandysiswandi/shopdesk/internal/pkg/config"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/jwt"
	"github.com/shandysiswandi/shopdesk/internal/pkg/validator"
	"github.com/shandysiswandi/shopdesk/internal/shared/notify"
	"go.opentelemetry.io/otel/trace"
)

const (
	dateLayout = "2006-01-02"

	// reminderBatchSize bounds one reminder run.
	reminderBatchSize int32 = 100

	defaultPostponeMinutes = 60
	defaultRetryMinutes    = 15
)

type repoDB interface {
	ListEvents(ctx context.Context, f entity.EventFilter) ([]entity.Event, error)
	GetEvent(ctx context.Context, userID string, id int64) (entity.Event, error)
	CreateEvent(ctx context.Context, in entity.SaveEvent) (entity.Event, error)
	UpdateEvent(ctx context.Context, in entity.SaveEvent) (entity.Event, error)
	UpdateEventStatus(ctx context.Context, userID string, id int64, status entity.EventStatus) (entity.Event, error)
	ArchiveEvent(ctx context.Context, userID string, id int64) (entity.Event, error)

	CreateReminders(ctx context.Context, eventID int64) error
	DeletePendingReminders(ctx context.Context, eventID int64, types ...entity.ReminderType) (int64, error)
	EnqueueReminder(ctx context.Context, eventID int64, runAt time.Time, typ entity.ReminderType) error
	ListDueReminders(ctx context.Context, now time.Time, limit int32) ([]entity.DueReminder, error)
	MarkReminderDelivered(ctx context.Context, id int64, attempted bool) error
}

type Usecase struct {
	repoDB    repoDB
	notifier  notify.Sender
	cfg       config.Config
	clock     clock.Clocker
	validator validator.Validator
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Notifier   notify.Sender
	Config     config.Config
	Clock      clock.Clocker
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		notifier:  dep.Notifier,
		cfg:       dep.Config,
		clock:     dep.Clock,
		validator: dep.Validator,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("agenda.usecase").Start(ctx, name)
}

func (s *Usecase) requireAuth(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil || clm.UserID() == "" {
		return nil, goerror.Unauthenticated()
	}

	return clm, nil
}

func (s *Usecase) minutes(key string, def int) time.Duration {
	if n := s.cfg.GetInt(key); n > 0 {
		return time.Duration(n) * time.Minute
	}
	return time.Duration(def) * time.Minute
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
