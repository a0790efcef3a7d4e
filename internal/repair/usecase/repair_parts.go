package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/shopdesk/internal/pkg/gate"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/repair/entity"
)

type AttachPartInput struct {
	RepairID  int64  `validate:"required,gt=0"`
	ProductID int64  `validate:"required,gt=0"`
	StockID   *int64 `validate:"omitempty,gt=0"`
	Quantity  int32  `validate:"required,gt=0"`
	Serial    string `validate:"max=100"`
}

// AttachPart reserves stock for a ticket. Missing stock answers with the
// other stocks still holding the product.
func (s *Usecase) AttachPart(ctx context.Context, in AttachPartInput) (*entity.Item, error) {
	ctx, span := s.startSpan(ctx, "AttachPart")
	defer span.End()

	if _, err := s.gate.Authorize(ctx, gateObject, gate.ActWrite); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	var serial *string
	if v := strings.TrimSpace(in.Serial); v != "" {
		serial = &v
	}

	itemID, err := s.repoDB.ReserveStock(ctx, entity.Reservation{
		RepairID:  in.RepairID,
		ProductID: in.ProductID,
		StockID:   in.StockID,
		Quantity:  in.Quantity,
		Serial:    serial,
	})
	switch {
	case errors.Is(err, entity.ErrInsufficientStock):
		return nil, s.insufficientStock(ctx, in.ProductID, err)
	case errors.Is(err, entity.ErrSerialUnavailable):
		return nil, goerror.NewBusiness("Serial number unavailable", goerror.CodeConflict,
			goerror.WithReason("SERIAL_UNAVAILABLE"), goerror.WithCause(err))
	case errors.Is(err, goerror.ErrNotFound):
		return nil, goerror.NewBusiness("repair, product or stock not found", goerror.CodeNotFound)
	case err != nil:
		slog.ErrorContext(ctx, "failed to repo reserve stock", "repair_id", in.RepairID, "product_id", in.ProductID, "error", err)
		return nil, goerror.NewServer(err)
	}

	items, err := s.repoDB.ListItems(ctx, in.RepairID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list repair items", "repair_id", in.RepairID, "error", err)
		return nil, goerror.NewServer(err)
	}

	item, ok := lo.Find(items, func(it entity.Item) bool { return it.ID == itemID })
	if !ok {
		return &entity.Item{ID: itemID, RepairID: in.RepairID, ProductID: in.ProductID, StockID: in.StockID,
			Quantity: in.Quantity, Serial: serial, Reserved: true}, nil
	}

	return &item, nil
}

func (s *Usecase) insufficientStock(ctx context.Context, productID int64, cause error) error {
	candidates, err := s.repoDB.ListAvailableStock(ctx, productID)
	if err != nil {
		slog.WarnContext(ctx, "failed to repo list stock candidates", "product_id", productID, "error", err)
	}
	if candidates == nil {
		candidates = []entity.StockLevel{}
	}

	return goerror.NewBusiness("Insufficient stock", goerror.CodeUnprocessable,
		goerror.WithReason("INSUFFICIENT_STOCK"),
		goerror.WithContext("candidates", candidates),
		goerror.WithCause(cause))
}

type ReleasePartsInput struct {
	RepairID int64  `validate:"required,gt=0"`
	ItemID   *int64 `validate:"omitempty,gt=0"`
}

// ReleaseParts frees reserved stock of the ticket, or of a single item.
func (s *Usecase) ReleaseParts(ctx context.Context, in ReleasePartsInput) (int64, error) {
	ctx, span := s.startSpan(ctx, "ReleaseParts")
	defer span.End()

	if _, err := s.gate.Authorize(ctx, gateObject, gate.ActWrite); err != nil {
		return 0, err
	}

	if err := s.validator.Validate(in); err != nil {
		return 0, goerror.NewInvalidInput(err)
	}

	n, err := s.repoDB.ReleaseReservations(ctx, in.RepairID, in.ItemID)
	if errors.Is(err, goerror.ErrNotFound) {
		return 0, errRepairNotFound()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo release reservations", "repair_id", in.RepairID, "error", err)
		return 0, goerror.NewServer(err)
	}

	return n, nil
}
