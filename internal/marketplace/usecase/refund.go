package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/marketplace/entity"
	"github.com/shandysiswandi/shopdesk/internal/pkg/gate"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shopspring/decimal"
)

type IngestRefundInput struct {
	Provider   string `validate:"required,notblank"`
	OrderID    string `validate:"required,notblank,max=64"`
	RefundID   string `validate:"required,notblank,max=64"`
	SKU        string `validate:"required,notblank,max=64"`
	Quantity   int32  `validate:"required,gt=0"`
	Amount     decimal.Decimal
	Currency   string `validate:"required,len=3"`
	Reason     string `validate:"max=500"`
	RefundedAt time.Time
}

// IngestRefund records a marketplace refund. A refund already booked answers
// 409 DUPLICATE_REFUND, an unknown order or sku answers 404.
func (s *Usecase) IngestRefund(ctx context.Context, in IngestRefundInput) (int64, error) {
	ctx, span := s.startSpan(ctx, "IngestRefund")
	defer span.End()

	if _, err := s.gate.Authorize(ctx, gateObject, gate.ActWrite); err != nil {
		return 0, err
	}

	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if err := s.validator.Validate(in); err != nil {
		return 0, goerror.NewInvalidInput(err)
	}
	if !in.Amount.IsPositive() {
		return 0, goerror.NewInvalidInput(nil, "amount", "must be greater than 0")
	}
	if in.RefundedAt.IsZero() {
		in.RefundedAt = s.clock.Now()
	}

	id, err := s.repoDB.IngestRefund(ctx, entity.Refund{
		Provider:   in.Provider,
		OrderID:    in.OrderID,
		RefundID:   in.RefundID,
		SKU:        in.SKU,
		Quantity:   in.Quantity,
		Amount:     in.Amount,
		Currency:   in.Currency,
		Reason:     in.Reason,
		RefundedAt: in.RefundedAt.UTC(),
	})
	switch {
	case errors.Is(err, entity.ErrDuplicateRefund):
		return 0, goerror.NewBusiness("Refund already ingested", goerror.CodeConflict,
			goerror.WithReason("DUPLICATE_REFUND"), goerror.WithContext("refund_id", in.RefundID))
	case errors.Is(err, goerror.ErrNotFound):
		return 0, goerror.NewBusiness("Order or product not found", goerror.CodeNotFound, goerror.WithCause(err))
	case err != nil:
		slog.ErrorContext(ctx, "failed to repo ingest refund", "refund_id", in.RefundID, "error", err)
		return 0, goerror.NewServer(err)
	}

	return id, nil
}
