package inbound

import (
	"context"

	"github.com/shandysiswandi/shopdesk/internal/consignment/entity"
	"github.com/shandysiswandi/shopdesk/internal/consignment/usecase"
)

type ucCron interface {
	RunCheckUnpaid(ctx context.Context) (*usecase.RunCheckUnpaidOutput, error)
	RunSyncInvoices(ctx context.Context) (*usecase.RunSyncInvoicesOutput, error)
}

type uc interface {
	ucCron

	ListMoves(ctx context.Context, in usecase.ListMovesInput) (*usecase.ListMovesOutput, error)
	CreateMove(ctx context.Context, in usecase.CreateMoveInput) (*entity.Move, error)
	ListBalances(ctx context.Context, in usecase.ListBalancesInput) ([]entity.Balance, error)
}
