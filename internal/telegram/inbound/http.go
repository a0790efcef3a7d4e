package inbound

import (
	"github.com/shandysiswandi/shopdesk/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/telegram/bots", end.ListBots)
	r.POST("/api/v1/telegram/bots", end.LinkBot)
	r.DELETE("/api/v1/telegram/bots/:id", end.UnlinkBot)

	r.POST("/api/v1/telegram/webhook/:id", end.Webhook)
}
