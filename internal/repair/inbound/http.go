package inbound

import (
	"github.com/shandysiswandi/shopdesk/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc, cronGuard router.Middleware) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/repairs", end.ListRepairs)
	r.POST("/api/v1/repairs", end.CreateRepair)
	r.GET("/api/v1/repairs/:id", end.GetRepair)
	r.PATCH("/api/v1/repairs/:id/status", end.UpdateStatus)

	r.POST("/api/v1/repairs/:id/parts", end.AttachPart)
	r.DELETE("/api/v1/repairs/:id/parts", end.ReleaseParts)

	r.POST("/api/v1/repairs/:id/drying", end.StartDrying)
	r.POST("/api/v1/repairs/:id/drying/ack", end.AcknowledgeDrying)

	r.POST("/api/v1/repairs/:id/signature", end.UploadSignature)
	r.POST("/api/v1/repairs/:id/photos", end.UploadPhoto)

	r.POST("/api/v1/repairs/:id/invoice", end.CreateInvoice)

	r.POST("/api/v1/repairs-drying/run", end.RunDryingCheck, cronGuard)
	r.POST("/api/v1/repairs-digest/run", end.RunDailyDigest, cronGuard)
}
