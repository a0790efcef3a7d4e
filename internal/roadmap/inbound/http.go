package inbound

import (
	"github.com/shandysiswandi/shopdesk/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc, cronGuard router.Middleware) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/roadmap/entries", end.ListEntries)
	r.POST("/api/v1/roadmap/entries", end.CreateEntry)
	r.PUT("/api/v1/roadmap/entries/:id", end.UpdateEntry)
	r.PATCH("/api/v1/roadmap/entries/:id/status", end.UpdateEntryStatus)
	r.DELETE("/api/v1/roadmap/entries/:id", end.ArchiveEntry)

	r.GET("/api/v1/roadmap/templates", end.ListTemplates)
	r.POST("/api/v1/roadmap/templates", end.CreateTemplate)
	r.DELETE("/api/v1/roadmap/templates/:id", end.DeleteTemplate)
	r.POST("/api/v1/roadmap/templates/:id/apply", end.ApplyTemplate)

	r.POST("/api/v1/roadmap/notifications/run", end.RunNotifications, cronGuard)
}
