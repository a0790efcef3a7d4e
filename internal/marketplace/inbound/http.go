package inbound

import (
	"github.com/shandysiswandi/shopdesk/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/marketplace/oauth/authorize", end.Authorize)
	r.GET("/api/v1/marketplace/oauth/callback", end.Callback)

	r.GET("/api/v1/marketplace/accounts", end.ListAccounts)
	r.DELETE("/api/v1/marketplace/accounts/:id", end.RevokeAccount)
	r.POST("/api/v1/marketplace/accounts/:id/refresh", end.RefreshAccount)

	r.POST("/api/v1/marketplace/refunds", end.IngestRefund)
}
