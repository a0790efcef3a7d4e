package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/shopdesk/internal/pkg/gate"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/repair/entity"
)

func errAlreadyInvoiced(opts ...goerror.Option) error {
	return goerror.NewBusiness("Repair already invoiced", goerror.CodeConflict,
		append([]goerror.Option{goerror.WithReason("ALREADY_INVOICED")}, opts...)...)
}

func (s *Usecase) CreateInvoice(ctx context.Context, id int64) (*entity.Repair, error) {
	ctx, span := s.startSpan(ctx, "CreateInvoice")
	defer span.End()

	if _, err := s.gate.Authorize(ctx, gateObject, gate.ActWrite); err != nil {
		return nil, err
	}

	current, err := s.getRepair(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.InvoiceID != nil {
		return nil, errAlreadyInvoiced(goerror.WithContext("invoice_id", *current.InvoiceID))
	}

	invoiceID, err := s.repoDB.FinalizeInvoice(ctx, id)
	switch {
	case errors.Is(err, entity.ErrAlreadyInvoiced):
		return nil, errAlreadyInvoiced(goerror.WithCause(err))
	case errors.Is(err, goerror.ErrNotFound):
		return nil, errRepairNotFound()
	case err != nil:
		slog.ErrorContext(ctx, "failed to repo finalize invoice", "repair_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}

	r, err := s.repoDB.SetInvoice(ctx, id, invoiceID)
	return repairResult(ctx, "set repair invoice", id, r, err)
}
