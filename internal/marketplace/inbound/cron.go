package inbound

import (
	"context"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/pkg/config"
	"github.com/shandysiswandi/shopdesk/internal/pkg/scheduler"
)

func RegisterCronJob(s *scheduler.Scheduler, cfg config.Config, uc ucCron) error {
	spec := cfg.GetString("modules.marketplace.cron.cleanup_pending")
	if spec == "" {
		spec = "17 * * * *"
	}

	return s.Add("marketplace.cleanup_pending", spec, time.Minute, func(ctx context.Context) error {
		_, err := uc.RunCleanupPending(ctx)
		return err
	})
}
