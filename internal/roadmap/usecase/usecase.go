package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/pkg/clock"
	"github.com/shandysiswandi/shopdesk/internal/pkg/config"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/jwt"
	"github.com/shandysiswandi/shopdesk/internal/pkg/validator"
	"github.com/shandysiswandi/shopdesk/internal/roadmap/entity"
	"github.com/shandysiswandi/shopdesk/internal/shared/notify"
	"go.opentelemetry.io/otel/trace"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	defaultLeadMinutes = 30
)

type repoDB interface {
	ListEntries(ctx context.Context, f entity.EntryFilter) ([]entity.Entry, error)
	CreateEntry(ctx context.Context, in entity.SaveEntry) (entity.Entry, error)
	UpdateEntry(ctx context.Context, in entity.SaveEntry) (entity.Entry, error)
	UpdateEntryStatus(ctx context.Context, userID string, id int64, status entity.EntryStatus) (entity.Entry, error)
	ArchiveEntry(ctx context.Context, userID string, id int64) (entity.Entry, error)
	ListOpenEntriesUntil(ctx context.Context, day time.Time) ([]entity.Entry, error)

	ListTemplates(ctx context.Context, userID string) ([]entity.Template, error)
	GetTemplate(ctx context.Context, userID string, id int64) (entity.Template, error)
	CreateTemplate(ctx context.Context, in entity.Template) (entity.Template, error)
	DeleteTemplate(ctx context.Context, userID string, id int64) error

	RecordNotification(ctx context.Context, entryID int64, kind entity.NotificationKind, day time.Time) (bool, error)
	ForgetNotification(ctx context.Context, entryID int64, kind entity.NotificationKind, day time.Time) error
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
	return s.ins.Tracer("roadmap.usecase").Start(ctx, name)
}

func (s *Usecase) requireAuth(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil || clm.UserID() == "" {
		return nil, goerror.Unauthenticated()
	}

	return clm, nil
}

// entryResult maps a single-entry repository result.
func entryResult(ctx context.Context, op string, id int64, e entity.Entry, err error) (*entity.Entry, error) {
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("roadmap entry not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo "+op, "entry_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}
	return &e, nil
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
