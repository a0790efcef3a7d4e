package inbound

import (
	"context"
	"errors"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/pkg/config"
	"github.com/shandysiswandi/shopdesk/internal/pkg/scheduler"
)

func RegisterCronJob(s *scheduler.Scheduler, cfg config.Config, uc ucCron) error {
	unpaid := cfg.GetString("modules.consignment.cron.unpaid")
	if unpaid == "" {
		unpaid = "0 8 * * *"
	}
	sync := cfg.GetString("modules.consignment.cron.sync_invoices")
	if sync == "" {
		sync = "0 * * * *"
	}

	return errors.Join(
		s.Add("consignment.unpaid", unpaid, 5*time.Minute, func(ctx context.Context) error {
			_, err := uc.RunCheckUnpaid(ctx)
			return err
		}),
		s.Add("consignment.sync_invoices", sync, 5*time.Minute, func(ctx context.Context) error {
			_, err := uc.RunSyncInvoices(ctx)
			return err
		}),
	)
}
