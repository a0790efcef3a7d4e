package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/pkg/clock"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/idempotency"
	"github.com/shandysiswandi/shopdesk/internal/pkg/valueobject"
	"github.com/shandysiswandi/shopdesk/internal/shared/notify"
)

type RunCheckUnpaidOutput struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

// RunCheckUnpaid raises one global notification per unpaid invoice line and
// per day, once the line is older than modules.consignment.unpaid_after_days.
func (s *Usecase) RunCheckUnpaid(ctx context.Context) (*RunCheckUnpaidOutput, error) {
	ctx, span := s.startSpan(ctx, "RunCheckUnpaid")
	defer span.End()

	days := s.cfg.GetInt("modules.consignment.unpaid_after_days")
	if days <= 0 {
		days = defaultUnpaidAfterDays
	}

	now := s.clock.Now()
	invoices, err := s.repoDB.ListUnpaidInvoices(ctx, now.AddDate(0, 0, -days))
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list unpaid invoices", "error", err)
		return nil, goerror.NewServer(err)
	}

	today := clock.StartOfDay(now).Format("2006-01-02")
	out := &RunCheckUnpaidOutput{}
	for _, inv := range invoices {
		key := fmt.Sprintf("consignment-unpaid:%d:%s", inv.InvoiceItemID, today)
		err := s.idempotency.Exec(ctx, key, func(ctx context.Context) error {
			age := int(now.Sub(inv.InvoicedAt).Hours() / 24)
			_, err := s.notifier.Notify(ctx, notify.Notification{
				Type:  NotificationTypeUnpaid,
				Title: "Dépôt-vente impayé",
				Message: fmt.Sprintf("%s : facture de %s € impayée depuis %d jours",
					stockLabel(inv.StockName, inv.StockID), inv.Amount.StringFixed(2), age),
				Metadata: valueobject.JSONMap{
					"invoice_item_id": inv.InvoiceItemID,
					"stock_id":        inv.StockID,
					"product_id":      inv.ProductID,
					"amount":          inv.Amount.String(),
					"days":            age,
				},
			})
			return err
		}, idempotency.WithTTL(36*time.Hour))

		switch {
		case idempotency.Skipped(err):
			out.Skipped++
		case err != nil:
			slog.ErrorContext(ctx, "failed to notify unpaid invoice", "invoice_item_id", inv.InvoiceItemID, "error", err)
			out.Errors++
		default:
			out.Processed++
		}
	}

	return out, nil
}

func stockLabel(name string, id int64) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("Stock #%d", id)
}
