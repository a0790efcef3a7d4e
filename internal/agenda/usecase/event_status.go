package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/shopdesk/internal/agenda/entity"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
)

type UpdateEventStatusInput struct {
	ID     int64  `validate:"required,gt=0"`
	Status string `validate:"required,oneof=a_faire en_cours fait vu"`
}

func (s *Usecase) UpdateEventStatus(ctx context.Context, in UpdateEventStatusInput) (*entity.Event, error) {
	ctx, span := s.startSpan(ctx, "UpdateEventStatus")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ev, err := s.setStatus(ctx, clm.UserID(), in.ID, entity.EventStatus(in.Status))
	if err != nil {
		return nil, err
	}

	return &ev, nil
}

type ArchiveEventInput struct {
	ID int64 `validate:"required,gt=0"`
}

func (s *Usecase) ArchiveEvent(ctx context.Context, in ArchiveEventInput) (*entity.Event, error) {
	ctx, span := s.startSpan(ctx, "ArchiveEvent")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ev, err := s.repoDB.ArchiveEvent(ctx, clm.UserID(), in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("agenda event not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo archive agenda event", "event_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if _, err := s.repoDB.DeletePendingReminders(ctx, ev.ID); err != nil {
		slog.ErrorContext(ctx, "failed to repo delete reminders of archived event", "event_id", ev.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ev, nil
}

// setStatus updates the status and drops every pending reminder once done.
func (s *Usecase) setStatus(ctx context.Context, userID string, id int64, status entity.EventStatus) (entity.Event, error) {
	ev, err := s.repoDB.UpdateEventStatus(ctx, userID, id, status)
	if errors.Is(err, goerror.ErrNotFound) {
		return entity.Event{}, goerror.NewBusiness("agenda event not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update agenda event status", "event_id", id, "status", status, "error", err)
		return entity.Event{}, goerror.NewServer(err)
	}

	if status == entity.EventStatusDone {
		if _, err := s.repoDB.DeletePendingReminders(ctx, id); err != nil {
			slog.ErrorContext(ctx, "failed to repo delete reminders of done event", "event_id", id, "error", err)
			return entity.Event{}, goerror.NewServer(err)
		}
	}

	return ev, nil
}
