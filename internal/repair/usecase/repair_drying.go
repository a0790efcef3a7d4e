package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/pkg/gate"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/valueobject"
	"github.com/shandysiswandi/shopdesk/internal/repair/entity"
	"github.com/shandysiswandi/shopdesk/internal/shared/notify"
)

const NotificationTypeDryingDone = "repair_drying_done"

type StartDryingInput struct {
	ID      int64 `validate:"required,gt=0"`
	Minutes int   `validate:"required,gt=0,lte=10080"`
}

func (s *Usecase) StartDrying(ctx context.Context, in StartDryingInput) (*entity.Repair, error) {
	ctx, span := s.startSpan(ctx, "StartDrying")
	defer span.End()

	if _, err := s.gate.Authorize(ctx, gateObject, gate.ActWrite); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	current, err := s.getRepair(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if current.Status.Closed() {
		return nil, goerror.NewBusiness("Repair is closed", goerror.CodeConflict,
			goerror.WithReason("INVALID_STATE"),
			goerror.WithContext("status", current.Status))
	}

	start := s.clock.Now()
	r, err := s.repoDB.StartDrying(ctx, in.ID, start, start.Add(time.Duration(in.Minutes)*time.Minute))
	return repairResult(ctx, "start drying", in.ID, r, err)
}

func (s *Usecase) AcknowledgeDrying(ctx context.Context, id int64) (*entity.Repair, error) {
	ctx, span := s.startSpan(ctx, "AcknowledgeDrying")
	defer span.End()

	if _, err := s.gate.Authorize(ctx, gateObject, gate.ActWrite); err != nil {
		return nil, err
	}

	current, err := s.getRepair(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != entity.StatusDrying {
		return nil, goerror.NewBusiness("Repair is not drying", goerror.CodeConflict,
			goerror.WithReason("INVALID_STATE"),
			goerror.WithContext("status", current.Status))
	}

	r, err := s.repoDB.AcknowledgeDrying(ctx, id, s.clock.Now())
	return repairResult(ctx, "acknowledge drying", id, r, err)
}

type RunDryingCheckOutput struct {
	Processed int `json:"processed"`
	Errors    int `json:"errors"`
}

// RunDryingCheck raises one shop wide notification per finished drying.
func (s *Usecase) RunDryingCheck(ctx context.Context) (*RunDryingCheckOutput, error) {
	ctx, span := s.startSpan(ctx, "RunDryingCheck")
	defer span.End()

	now := s.clock.Now()
	due, err := s.repoDB.ListDryingDue(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list finished dryings", "error", err)
		return nil, goerror.NewServer(err)
	}

	out := &RunDryingCheckOutput{}
	for _, r := range due {
		_, err := s.notifier.Notify(ctx, notify.Notification{
			Type:    NotificationTypeDryingDone,
			Title:   "Séchage terminé",
			Message: fmt.Sprintf("%s : %s (%s)", r.Reference, r.Device, r.CustomerName),
			Metadata: valueobject.JSONMap{
				"repair_id": r.ID,
				"reference": r.Reference,
			},
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to notify finished drying", "repair_id", r.ID, "error", err)
			out.Errors++
			continue
		}

		if err := s.repoDB.MarkDryingNotified(ctx, r.ID, now); err != nil {
			slog.ErrorContext(ctx, "failed to repo mark drying notified", "repair_id", r.ID, "error", err)
			out.Errors++
			continue
		}

		out.Processed++
	}

	return out, nil
}
