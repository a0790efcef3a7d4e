package inbound

import (
	"context"

	"github.com/shandysiswandi/shopdesk/internal/repair/entity"
	"github.com/shandysiswandi/shopdesk/internal/repair/usecase"
)

type ucCron interface {
	RunDryingCheck(ctx context.Context) (*usecase.RunDryingCheckOutput, error)
	RunDailyDigest(ctx context.Context) (*usecase.RunDailyDigestOutput, error)
}

type uc interface {
	ucCron

	ListRepairs(ctx context.Context, in usecase.ListRepairsInput) (*usecase.ListRepairsOutput, error)
	GetRepair(ctx context.Context, id int64) (*entity.Detail, error)
	CreateRepair(ctx context.Context, in usecase.CreateRepairInput) (*entity.Repair, error)
	UpdateStatus(ctx context.Context, in usecase.UpdateStatusInput) (*entity.Repair, error)

	AttachPart(ctx context.Context, in usecase.AttachPartInput) (*entity.Item, error)
	ReleaseParts(ctx context.Context, in usecase.ReleasePartsInput) (int64, error)

	StartDrying(ctx context.Context, in usecase.StartDryingInput) (*entity.Repair, error)
	AcknowledgeDrying(ctx context.Context, id int64) (*entity.Repair, error)

	UploadSignature(ctx context.Context, in usecase.UploadInput) (*entity.Repair, error)
	UploadPhoto(ctx context.Context, in usecase.UploadInput) (*entity.Photo, error)

	CreateInvoice(ctx context.Context, id int64) (*entity.Repair, error)
}
