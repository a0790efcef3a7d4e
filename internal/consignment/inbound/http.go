package inbound

import (
	"github.com/shandysiswandi/shopdesk/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc, cronGuard router.Middleware) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/consignments/moves", end.ListMoves)
	r.POST("/api/v1/consignments/moves", end.CreateMove)
	r.GET("/api/v1/consignments/balances", end.ListBalances)

	r.POST("/api/v1/consignments/unpaid/run", end.RunCheckUnpaid, cronGuard)
	r.POST("/api/v1/consignments/invoices/sync", end.RunSyncInvoices, cronGuard)
}
