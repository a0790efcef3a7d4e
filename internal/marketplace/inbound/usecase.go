package inbound

import (
	"context"

	"github.com/shandysiswandi/shopdesk/internal/marketplace/entity"
	"github.com/shandysiswandi/shopdesk/internal/marketplace/usecase"
)

type ucCron interface {
	RunCleanupPending(ctx context.Context) (*usecase.RunCleanupPendingOutput, error)
}

type uc interface {
	ucCron

	Authorize(ctx context.Context, in usecase.AuthorizeInput) (string, error)
	Callback(ctx context.Context, in usecase.CallbackInput) string
	ListAccounts(ctx context.Context) ([]entity.Account, error)
	RevokeAccount(ctx context.Context, id int64) (*entity.Account, error)
	RefreshAccount(ctx context.Context, id int64) (*entity.Account, error)
	IngestRefund(ctx context.Context, in usecase.IngestRefundInput) (int64, error)
}
