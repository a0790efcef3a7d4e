package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/shopdesk/internal/pkg/gate"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/repair/entity"
)

type ListRepairsInput struct {
	Status string `validate:"omitempty,oneof=quote_todo parts_to_order to_repair waiting_parts in_repair drying ready_to_return delivered archived cancelled"`
	Limit  int32  `validate:"gte=0,lte=100"`
	Offset int32  `validate:"gte=0"`
}

type ListRepairsOutput struct {
	Items  []entity.Repair
	Total  int64
	Limit  int32
	Offset int32
}

func (s *Usecase) ListRepairs(ctx context.Context, in ListRepairsInput) (*ListRepairsOutput, error) {
	ctx, span := s.startSpan(ctx, "ListRepairs")
	defer span.End()

	if _, err := s.gate.Authorize(ctx, gateObject, gate.ActRead); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.Limit == 0 {
		in.Limit = 20
	}

	var status *entity.Status
	if in.Status != "" {
		st := entity.Status(in.Status)
		status = &st
	}

	items, err := s.repoDB.ListRepairs(ctx, status, in.Limit, in.Offset)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list repairs", "error", err)
		return nil, goerror.NewServer(err)
	}

	total, err := s.repoDB.CountRepairs(ctx, status)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo count repairs", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ListRepairsOutput{Items: items, Total: total, Limit: in.Limit, Offset: in.Offset}, nil
}

func (s *Usecase) GetRepair(ctx context.Context, id int64) (*entity.Detail, error) {
	ctx, span := s.startSpan(ctx, "GetRepair")
	defer span.End()

	if _, err := s.gate.Authorize(ctx, gateObject, gate.ActRead); err != nil {
		return nil, err
	}

	r, err := s.getRepair(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.repoDB.ListItems(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list repair items", "repair_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}

	photos, err := s.repoDB.ListPhotos(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list repair photos", "repair_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &entity.Detail{Repair: r, Items: items, Photos: photos}, nil
}
