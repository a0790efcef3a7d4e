package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/shopdesk/internal/pkg/gate"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/repair/entity"
)

type UpdateStatusInput struct {
	ID     int64 `validate:"required,gt=0"`
	Status string
	Note   string `validate:"max=2000"`
}

// UpdateStatus moves a ticket to another status. Entering to_repair or
// ready_to_return needs every part reserved. Archiving needs an invoice or a
// delivered ticket. Drying is entered through StartDrying only, since it
// needs an end time.
func (s *Usecase) UpdateStatus(ctx context.Context, in UpdateStatusInput) (*entity.Repair, error) {
	ctx, span := s.startSpan(ctx, "UpdateStatus")
	defer span.End()

	if _, err := s.gate.Authorize(ctx, gateObject, gate.ActWrite); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	status := entity.Status(in.Status)
	if !status.Valid() {
		return nil, goerror.NewBusiness("Invalid status", goerror.CodeInvalidInput,
			goerror.WithReason("INVALID_STATUS"),
			goerror.WithContext("allowed", entity.Statuses))
	}

	if status == entity.StatusDrying {
		return nil, goerror.NewBusiness("Use the drying endpoint to start drying", goerror.CodeConflict,
			goerror.WithReason("INVALID_STATE"),
			goerror.WithContext("status", status))
	}

	current, err := s.getRepair(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if status.NeedsReservedParts() {
		if err := s.requireReservedParts(ctx, in.ID); err != nil {
			return nil, err
		}
	}

	if status == entity.StatusArchived && !current.CanArchive() {
		return nil, goerror.NewBusiness("Repair must be invoiced or delivered before archiving", goerror.CodeConflict,
			goerror.WithReason("CANNOT_ARCHIVE"))
	}

	r, err := s.repoDB.UpdateStatus(ctx, in.ID, status)
	if err != nil {
		return repairResult(ctx, "update repair status", in.ID, r, err)
	}

	if note := strings.TrimSpace(in.Note); note != "" {
		if err := s.repoDB.NoteLatestHistory(ctx, in.ID, note); err != nil {
			slog.WarnContext(ctx, "failed to repo note status history", "repair_id", in.ID, "error", err)
		}
	}

	return &r, nil
}

func (s *Usecase) requireReservedParts(ctx context.Context, repairID int64) error {
	items, err := s.repoDB.ListItems(ctx, repairID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list repair items", "repair_id", repairID, "error", err)
		return goerror.NewServer(err)
	}

	var pending []int64
	for _, it := range items {
		if !it.Reserved {
			pending = append(pending, it.ID)
		}
	}

	if len(items) == 0 || len(pending) > 0 {
		return goerror.NewBusiness("All parts must be reserved", goerror.CodeConflict,
			goerror.WithReason("PARTS_NOT_RESERVED"),
			goerror.WithContext("unreserved_item_ids", pending),
			goerror.WithContext("items", len(items)))
	}

	return nil
}
