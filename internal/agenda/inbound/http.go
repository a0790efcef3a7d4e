package inbound

import (
	"github.com/shandysiswandi/shopdesk/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc, cronGuard router.Middleware) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/agenda/events", end.ListEvents)
	r.POST("/api/v1/agenda/events", end.CreateEvent)
	r.PUT("/api/v1/agenda/events/:id", end.UpdateEvent)
	r.PATCH("/api/v1/agenda/events/:id/status", end.UpdateEventStatus)
	r.DELETE("/api/v1/agenda/events/:id", end.ArchiveEvent)
	r.POST("/api/v1/agenda/events/:id/reminder-action", end.ReminderAction)

	// cron trigger
	r.POST("/api/v1/agenda/reminders/run", end.RunReminders, cronGuard)
}
