package inbound

import (
	"context"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/pkg/config"
	"github.com/shandysiswandi/shopdesk/internal/pkg/scheduler"
)

const defaultRemindersSpec = "*/5 * * * *"

func RegisterCronJob(s *scheduler.Scheduler, cfg config.Config, uc ucCron) error {
	spec := cfg.GetString("modules.agenda.cron.reminders")
	if spec == "" {
		spec = defaultRemindersSpec
	}

	return s.Add("agenda.reminders", spec, 4*time.Minute, func(ctx context.Context) error {
		_, err := uc.RunReminders(ctx)
		return err
	})
}
