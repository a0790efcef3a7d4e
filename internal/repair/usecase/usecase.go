package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/pkg/clock"
	"github.com/shandysiswandi/shopdesk/internal/pkg/config"
	"github.com/shandysiswandi/shopdesk/internal/pkg/gate"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/idempotency"
	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/mail"
	"github.com/shandysiswandi/shopdesk/internal/pkg/storage"
	"github.com/shandysiswandi/shopdesk/internal/pkg/uid"
	"github.com/shandysiswandi/shopdesk/internal/pkg/validator"
	"github.com/shandysiswandi/shopdesk/internal/repair/entity"
	"github.com/shandysiswandi/shopdesk/internal/shared/notify"
	"go.opentelemetry.io/otel/trace"
)

const gateObject = "repair"

type repoDB interface {
	ListRepairs(ctx context.Context, status *entity.Status, limit, offset int32) ([]entity.Repair, error)
	CountRepairs(ctx context.Context, status *entity.Status) (int64, error)
	GetRepair(ctx context.Context, id int64) (entity.Repair, error)
	CreateRepair(ctx context.Context, in entity.CreateRepair) (entity.Repair, error)
	UpdateStatus(ctx context.Context, id int64, status entity.Status) (entity.Repair, error)
	NoteLatestHistory(ctx context.Context, repairID int64, note string) error

	ListItems(ctx context.Context, repairID int64) ([]entity.Item, error)
	ReserveStock(ctx context.Context, in entity.Reservation) (int64, error)
	ReleaseReservations(ctx context.Context, repairID int64, itemID *int64) (int64, error)
	ListAvailableStock(ctx context.Context, productID int64) ([]entity.StockLevel, error)

	StartDrying(ctx context.Context, id int64, start, end time.Time) (entity.Repair, error)
	AcknowledgeDrying(ctx context.Context, id int64, at time.Time) (entity.Repair, error)
	ListDryingDue(ctx context.Context, now time.Time) ([]entity.Repair, error)
	MarkDryingNotified(ctx context.Context, id int64, at time.Time) error

	ListPhotos(ctx context.Context, repairID int64) ([]entity.Photo, error)
	AddPhoto(ctx context.Context, repairID int64, url string) (entity.Photo, error)
	SetSignature(ctx context.Context, id int64, url string) (entity.Repair, error)

	FinalizeInvoice(ctx context.Context, repairID int64) (int64, error)
	SetInvoice(ctx context.Context, id, invoiceID int64) (entity.Repair, error)

	ListOpenTickets(ctx context.Context) ([]entity.DigestRow, error)
	HasNotificationSince(ctx context.Context, typ string, t time.Time) (bool, error)
}

type Usecase struct {
	repoDB      repoDB
	gate        gate.Authorizer
	storage     storage.Storage
	notifier    notify.Sender
	mail        mail.Mail
	idempotency idempotency.Idempotency
	cfg         config.Config
	clock       clock.Clocker
	uuid        uid.StringID
	validator   validator.Validator
	ins         instrument.Instrumentation
}

type Dependency struct {
	RepoDB      repoDB
	Gate        gate.Authorizer
	Storage     storage.Storage
	Notifier    notify.Sender
	Mail        mail.Mail
	Idempotency idempotency.Idempotency
	Config      config.Config
	Clock       clock.Clocker
	UUID        uid.StringID
	Validator   validator.Validator
	Instrument  instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:      dep.RepoDB,
		gate:        dep.Gate,
		storage:     dep.Storage,
		notifier:    dep.Notifier,
		mail:        dep.Mail,
		idempotency: dep.Idempotency,
		cfg:         dep.Config,
		clock:       dep.Clock,
		uuid:        dep.UUID,
		validator:   dep.Validator,
		ins:         dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("repair.usecase").Start(ctx, name)
}

func (s *Usecase) getRepair(ctx context.Context, id int64) (entity.Repair, error) {
	r, err := s.repoDB.GetRepair(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return entity.Repair{}, errRepairNotFound()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get repair", "repair_id", id, "error", err)
		return entity.Repair{}, goerror.NewServer(err)
	}
	return r, nil
}

// repairResult maps a single-ticket repository write.
func repairResult(ctx context.Context, op string, id int64, r entity.Repair, err error) (*entity.Repair, error) {
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errRepairNotFound()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo "+op, "repair_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}
	return &r, nil
}

func errRepairNotFound() error {
	return goerror.NewBusiness("repair not found", goerror.CodeNotFound)
}
