package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/shopdesk/internal/consignment/entity"
	"github.com/shandysiswandi/shopdesk/internal/pkg/gate"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shopspring/decimal"
)

type ListMovesInput struct {
	StockID   int64 `validate:"gte=0"`
	ProductID int64 `validate:"gte=0"`
	Limit     int32 `validate:"gte=0,lte=200"`
	Offset    int32 `validate:"gte=0"`
}

type ListMovesOutput struct {
	Items  []entity.Move
	Total  int64
	Limit  int32
	Offset int32
}

func (s *Usecase) ListMoves(ctx context.Context, in ListMovesInput) (*ListMovesOutput, error) {
	ctx, span := s.startSpan(ctx, "ListMoves")
	defer span.End()

	if _, err := s.gate.Authorize(ctx, gateObject, gate.ActRead); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if in.Limit == 0 {
		in.Limit = 50
	}

	f := entity.MoveFilter{StockID: optional(in.StockID), ProductID: optional(in.ProductID), Limit: in.Limit, Offset: in.Offset}
	moves, err := s.repoDB.ListMoves(ctx, f)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list consignment moves", "error", err)
		return nil, goerror.NewServer(err)
	}

	total, err := s.repoDB.CountMoves(ctx, f)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo count consignment moves", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ListMovesOutput{Items: moves, Total: total, Limit: in.Limit, Offset: in.Offset}, nil
}

type CreateMoveInput struct {
	StockID       int64  `validate:"required,gt=0"`
	ProductID     int64  `validate:"required,gt=0"`
	Type          string `validate:"required,oneof=OUT RETURN INVOICE PAYMENT"`
	Quantity      decimal.Decimal
	Amount        decimal.Decimal
	InvoiceItemID *int64 `validate:"omitempty,gt=0"`
	Note          string `validate:"max=500"`
}

// CreateMove appends a ledger line. Goods moves need a positive quantity,
// INVOICE and PAYMENT need the invoice line they refer to.
func (s *Usecase) CreateMove(ctx context.Context, in CreateMoveInput) (*entity.Move, error) {
	ctx, span := s.startSpan(ctx, "CreateMove")
	defer span.End()

	caller, err := s.gate.Authorize(ctx, gateObject, gate.ActWrite)
	if err != nil {
		return nil, err
	}

	in.Type = strings.ToUpper(strings.TrimSpace(in.Type))
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	typ := entity.MoveType(in.Type)
	switch {
	case typ.NeedsQuantity() && !in.Quantity.IsPositive():
		return nil, goerror.NewInvalidInput(nil, "quantity", "must be greater than 0")
	case in.Quantity.IsNegative():
		return nil, goerror.NewInvalidInput(nil, "quantity", "must not be negative")
	case in.Amount.IsNegative():
		return nil, goerror.NewInvalidInput(nil, "amount", "must not be negative")
	case typ == entity.MovePayment && !in.Amount.IsPositive():
		return nil, goerror.NewInvalidInput(nil, "amount", "must be greater than 0")
	case typ.NeedsInvoiceItem() && in.InvoiceItemID == nil:
		return nil, goerror.NewInvalidInput(nil, "invoice_item_id", "is required for "+in.Type)
	}

	m, err := s.repoDB.CreateMove(ctx, entity.CreateMove{
		StockID:       in.StockID,
		ProductID:     in.ProductID,
		Type:          typ,
		Quantity:      in.Quantity,
		Amount:        in.Amount,
		InvoiceItemID: in.InvoiceItemID,
		Note:          strings.TrimSpace(in.Note),
		CreatedBy:     caller.UserID,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create consignment move", "type", in.Type, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &m, nil
}
