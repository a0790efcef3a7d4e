package inbound

import (
	"context"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/pkg/config"
	"github.com/shandysiswandi/shopdesk/internal/pkg/scheduler"
)

func RegisterCronJob(s *scheduler.Scheduler, cfg config.Config, uc ucCron) error {
	spec := cfg.GetString("modules.roadmap.cron.notifications")
	if spec == "" {
		spec = "*/5 * * * *"
	}

	return s.Add("roadmap.notifications", spec, 4*time.Minute, func(ctx context.Context) error {
		_, err := uc.RunNotifications(ctx)
		return err
	})
}
