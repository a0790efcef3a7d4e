package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/shopdesk/internal/pkg/gate"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/repair/entity"
)

type CreateRepairInput struct {
	CustomerName  string `validate:"required,notblank,max=200"`
	CustomerPhone string `validate:"omitempty,max=30"`
	Device        string `validate:"required,notblank,max=200"`
	Description   string `validate:"max=4000"`
}

func (s *Usecase) CreateRepair(ctx context.Context, in CreateRepairInput) (*entity.Repair, error) {
	ctx, span := s.startSpan(ctx, "CreateRepair")
	defer span.End()

	caller, err := s.gate.Authorize(ctx, gateObject, gate.ActWrite)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	r, err := s.repoDB.CreateRepair(ctx, entity.CreateRepair{
		Reference:     s.reference(),
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		Device:        strings.TrimSpace(in.Device),
		Description:   in.Description,
		CreatedBy:     caller.UserID,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create repair", "user_id", caller.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &r, nil
}

// reference is REP-<yymmdd>-<last 6 hex of a v7 uuid>.
func (s *Usecase) reference() string {
	id := strings.ReplaceAll(s.uuid.Generate(), "-", "")
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return "REP-" + s.clock.Now().Format("060102") + "-" + strings.ToUpper(id)
}
