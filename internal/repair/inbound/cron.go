package inbound

import (
	"context"
	"errors"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/pkg/config"
	"github.com/shandysiswandi/shopdesk/internal/pkg/scheduler"
)

func RegisterCronJob(s *scheduler.Scheduler, cfg config.Config, uc ucCron) error {
	drying := cfg.GetString("modules.repair.cron.drying")
	if drying == "" {
		drying = "*/5 * * * *"
	}
	digest := cfg.GetString("modules.repair.cron.digest")
	if digest == "" {
		digest = "0 17 * * *"
	}

	return errors.Join(
		s.Add("repair.drying", drying, 4*time.Minute, func(ctx context.Context) error {
			_, err := uc.RunDryingCheck(ctx)
			return err
		}),
		s.Add("repair.digest", digest, 10*time.Minute, func(ctx context.Context) error {
			_, err := uc.RunDailyDigest(ctx)
			return err
		}),
	)
}
