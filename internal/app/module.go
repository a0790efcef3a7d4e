package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/shopdesk/internal/agenda"
	"github.com/shandysiswandi/shopdesk/internal/consignment"
	"github.com/shandysiswandi/shopdesk/internal/marketplace"
	"github.com/shandysiswandi/shopdesk/internal/notification"
	"github.com/shandysiswandi/shopdesk/internal/repair"
	"github.com/shandysiswandi/shopdesk/internal/roadmap"
	"github.com/shandysiswandi/shopdesk/internal/telegram"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UUID:       a.uuid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Router:     a.router,
			SSERouter:  a.sseRouter,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.agenda.enabled") {
		if err := agenda.New(agenda.Dependency{
			DBConn:     a.dbConn,
			Notifier:   a.notifier,
			Config:     a.config,
			Instrument: a.ins,
			Clock:      a.clock,
			Validator:  a.validator,
			Router:     a.router,
			Scheduler:  a.scheduler,
			CronGuard:  a.cronGuard,
		}); err != nil {
			slog.Error("failed to init module agenda", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.roadmap.enabled") {
		if err := roadmap.New(roadmap.Dependency{
			DBConn:     a.dbConn,
			Notifier:   a.notifier,
			Config:     a.config,
			Instrument: a.ins,
			Clock:      a.clock,
			Validator:  a.validator,
			Router:     a.router,
			Scheduler:  a.scheduler,
			CronGuard:  a.cronGuard,
		}); err != nil {
			slog.Error("failed to init module roadmap", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.repair.enabled") {
		if err := repair.New(repair.Dependency{
			DBConn:      a.dbConn,
			Gate:        a.gate,
			Storage:     a.storage,
			Notifier:    a.notifier,
			Mail:        a.mail,
			Idempotency: a.idemp,
			Config:      a.config,
			Instrument:  a.ins,
			Clock:       a.clock,
			UUID:        a.uuid,
			Validator:   a.validator,
			Router:      a.router,
			Scheduler:   a.scheduler,
			CronGuard:   a.cronGuard,
		}); err != nil {
			slog.Error("failed to init module repair", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.consignment.enabled") {
		if err := consignment.New(consignment.Dependency{
			DBConn:      a.dbConn,
			Gate:        a.gate,
			Notifier:    a.notifier,
			Idempotency: a.idemp,
			Config:      a.config,
			Instrument:  a.ins,
			Clock:       a.clock,
			Validator:   a.validator,
			Router:      a.router,
			Scheduler:   a.scheduler,
			CronGuard:   a.cronGuard,
		}); err != nil {
			slog.Error("failed to init module consignment", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.marketplace.enabled") {
		if err := marketplace.New(marketplace.Dependency{
			DBConn:     a.dbConn,
			Gate:       a.gate,
			Crypt:      a.crypt,
			Config:     a.config,
			Instrument: a.ins,
			Clock:      a.clock,
			Validator:  a.validator,
			Router:     a.router,
			Scheduler:  a.scheduler,
		}); err != nil {
			slog.Error("failed to init module marketplace", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.telegram.enabled") {
		if err := telegram.New(telegram.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			Bot:        a.telegram,
			Crypt:      a.crypt,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UUID:       a.uuid,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Router:     a.router,
		}); err != nil {
			slog.Error("failed to init module telegram", "error", err)
			os.Exit(1)
		}
	}
}
