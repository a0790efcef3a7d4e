package inbound

import (
	"net/http"

	"github.com/shandysiswandi/shopdesk/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/notification/inbox", end.ListInbox)
	r.GET("/api/v1/notification/inbox/unread-count", end.CountUnread)
	r.PATCH("/api/v1/notification/inbox/:id/read", end.MarkRead)
	r.PUT("/api/v1/notification/inbox/read-all", end.MarkAllRead)
	r.DELETE("/api/v1/notification/inbox/:id", end.Delete)
}

// RegisterSSEEndpoint mounts the live stream, served apart from the API so
// long-lived connections do not count against its timeouts.
func RegisterSSEEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GETRaw("/api/v1/notification/stream", http.HandlerFunc(end.StreamNotifications))
}
