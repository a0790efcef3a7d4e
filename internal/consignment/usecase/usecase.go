package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/consignment/entity"
	"github.com/shandysiswandi/shopdesk/internal/pkg/clock"
	"github.com/shandysiswandi/shopdesk/internal/pkg/config"
	"github.com/shandysiswandi/shopdesk/internal/pkg/gate"
	"github.com/shandysiswandi/shopdesk/internal/pkg/idempotency"
	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/validator"
	"github.com/shandysiswandi/shopdesk/internal/shared/notify"
	"go.opentelemetry.io/otel/trace"
)

const (
	gateObject = "consignment"

	NotificationTypeUnpaid = "consignment_unpaid"

	defaultUnpaidAfterDays = 30
)

type repoDB interface {
	ListMoves(ctx context.Context, f entity.MoveFilter) ([]entity.Move, error)
	CountMoves(ctx context.Context, f entity.MoveFilter) (int64, error)
	CreateMove(ctx context.Context, in entity.CreateMove) (entity.Move, error)
	SumMoves(ctx context.Context, stockID *int64) ([]entity.MoveTotal, error)

	ListUnpaidInvoices(ctx context.Context, until time.Time) ([]entity.UnpaidInvoice, error)
	InsertMissingInvoiceMoves(ctx context.Context) (int64, error)
	InsertMissingPaymentMoves(ctx context.Context) (int64, error)
}

type Usecase struct {
	repoDB      repoDB
	gate        gate.Authorizer
	notifier    notify.Sender
	idempotency idempotency.Idempotency
	cfg         config.Config
	clock       clock.Clocker
	validator   validator.Validator
	ins         instrument.Instrumentation
}

type Dependency struct {
	RepoDB      repoDB
	Gate        gate.Authorizer
	Notifier    notify.Sender
	Idempotency idempotency.Idempotency
	Config      config.Config
	Clock       clock.Clocker
	Validator   validator.Validator
	Instrument  instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:      dep.RepoDB,
		gate:        dep.Gate,
		notifier:    dep.Notifier,
		idempotency: dep.Idempotency,
		cfg:         dep.Config,
		clock:       dep.Clock,
		validator:   dep.Validator,
		ins:         dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("consignment.usecase").Start(ctx, name)
}

func optional(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}
