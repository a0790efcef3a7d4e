package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/shopdesk/internal/agenda/entity"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
)

type ListEventsInput struct {
	From            string `validate:"omitempty,datetime=2006-01-02"`
	To              string `validate:"omitempty,datetime=2006-01-02"`
	IncludeArchived bool
}

func (s *Usecase) ListEvents(ctx context.Context, in ListEventsInput) ([]entity.Event, error) {
	ctx, span := s.startSpan(ctx, "ListEvents")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	from, _ := parseDate(in.From)
	to, _ := parseDate(in.To)
	if from != nil && to != nil && to.Before(*from) {
		return nil, goerror.NewInvalidInput(nil, "to", "to must not be before from")
	}

	items, err := s.repoDB.ListEvents(ctx, entity.EventFilter{
		UserID:          clm.UserID(),
		From:            from,
		To:              to,
		IncludeArchived: in.IncludeArchived,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list agenda events", "user_id", clm.UserID(), "error", err)
		return nil, goerror.NewServer(err)
	}

	return items, nil
}
