package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/shopdesk/internal/agenda/entity"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
)

type CreateEventInput struct {
	Date        string `validate:"required,datetime=2006-01-02"`
	Time        string `validate:"omitempty,datetime=15:04"`
	Title       string `validate:"required,notblank,max=200"`
	Description string `validate:"max=4000"`
	Status      string `validate:"omitempty,oneof=a_faire en_cours fait vu"`
	Important   bool
}

func (s *Usecase) CreateEvent(ctx context.Context, in CreateEventInput) (*entity.Event, error) {
	ctx, span := s.startSpan(ctx, "CreateEvent")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	date, _ := parseDate(in.Date)
	status := entity.EventStatus(in.Status)
	if status == "" {
		status = entity.EventStatusTodo
	}

	ev, err := s.repoDB.CreateEvent(ctx, entity.SaveEvent{
		UserID:      clm.UserID(),
		Date:        *date,
		Time:        optional(in.Time),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      status,
		Important:   in.Important,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create agenda event", "user_id", clm.UserID(), "error", err)
		return nil, goerror.NewServer(err)
	}

	s.scheduleReminders(ctx, ev)

	return &ev, nil
}

type UpdateEventInput struct {
	ID          int64  `validate:"required,gt=0"`
	Date        string `validate:"required,datetime=2006-01-02"`
	Time        string `validate:"omitempty,datetime=15:04"`
	Title       string `validate:"required,notblank,max=200"`
	Description string `validate:"max=4000"`
	Important   bool
}

func (s *Usecase) UpdateEvent(ctx context.Context, in UpdateEventInput) (*entity.Event, error) {
	ctx, span := s.startSpan(ctx, "UpdateEvent")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	date, _ := parseDate(in.Date)
	ev, err := s.repoDB.UpdateEvent(ctx, entity.SaveEvent{
		ID:          in.ID,
		UserID:      clm.UserID(),
		Date:        *date,
		Time:        optional(in.Time),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Important:   in.Important,
	})
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("agenda event not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update agenda event", "event_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.scheduleReminders(ctx, ev)

	return &ev, nil
}

// scheduleReminders rebuilds the reminder rows. Failure never fails the save.
func (s *Usecase) scheduleReminders(ctx context.Context, ev entity.Event) {
	if ev.Closed() {
		return
	}
	if err := s.repoDB.CreateReminders(ctx, ev.ID); err != nil {
		slog.WarnContext(ctx, "failed to create agenda reminders", "event_id", ev.ID, "error", err)
	}
}
