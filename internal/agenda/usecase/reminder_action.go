package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/agenda/entity"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
)

const (
	ActionSeen     = "vu"
	ActionPostpone = "reporte"
	ActionDone     = "fait"
)

type ReminderActionInput struct {
	ID      int64  `validate:"required,gt=0"`
	Action  string `validate:"required,oneof=vu reporte fait"`
	Minutes int    `validate:"omitempty,gte=1,lte=10080"`
}

type ReminderActionOutput struct {
	Event     entity.Event
	Action    string
	NextRunAt *time.Time
	Cancelled int64
}

// ReminderAction applies a user answer to a reminder. Pending retries are
// always cancelled; repeating an action leaves the same end state.
func (s *Usecase) ReminderAction(ctx context.Context, in ReminderActionInput) (*ReminderActionOutput, error) {
	ctx, span := s.startSpan(ctx, "ReminderAction")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ev, err := s.repoDB.GetEvent(ctx, clm.UserID(), in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("agenda event not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get agenda event", "event_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	cancelled, err := s.repoDB.DeletePendingReminders(ctx, ev.ID, entity.ReminderRetry15)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo cancel retry reminders", "event_id", ev.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	out := &ReminderActionOutput{Action: in.Action, Cancelled: cancelled}

	switch in.Action {
	case ActionSeen:
		if ev.Status != entity.EventStatusDone {
			if ev, err = s.setStatus(ctx, clm.UserID(), ev.ID, entity.EventStatusSeen); err != nil {
				return nil, err
			}
		}

	case ActionPostpone:
		after := s.minutes("modules.agenda.postpone_minutes", defaultPostponeMinutes)
		if in.Minutes > 0 {
			after = time.Duration(in.Minutes) * time.Minute
		}
		runAt := s.clock.Now().Add(after)
		if err := s.repoDB.EnqueueReminder(ctx, ev.ID, runAt, entity.ReminderNow); err != nil {
			slog.ErrorContext(ctx, "failed to repo enqueue postponed reminder", "event_id", ev.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
		out.NextRunAt = &runAt

	case ActionDone:
		if ev, err = s.setStatus(ctx, clm.UserID(), ev.ID, entity.EventStatusDone); err != nil {
			return nil, err
		}
	}

	out.Event = ev
	return out, nil
}
