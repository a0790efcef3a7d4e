package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
)

type RunSyncInvoicesOutput struct {
	Invoiced int64 `json:"invoiced"`
	Paid     int64 `json:"paid"`
}

// RunSyncInvoices mirrors invoicing into the ledger: consignment invoice
// lines get their INVOICE move, paid ones their PAYMENT move.
func (s *Usecase) RunSyncInvoices(ctx context.Context) (*RunSyncInvoicesOutput, error) {
	ctx, span := s.startSpan(ctx, "RunSyncInvoices")
	defer span.End()

	invoiced, err := s.repoDB.InsertMissingInvoiceMoves(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo sync invoice moves", "error", err)
		return nil, goerror.NewServer(err)
	}

	paid, err := s.repoDB.InsertMissingPaymentMoves(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo sync payment moves", "error", err)
		return nil, goerror.NewServer(err)
	}

	if invoiced > 0 || paid > 0 {
		slog.InfoContext(ctx, "consignment ledger synced", "invoiced", invoiced, "paid", paid)
	}

	return &RunSyncInvoicesOutput{Invoiced: invoiced, Paid: paid}, nil
}
