package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shandysiswandi/shopdesk/internal/agenda/entity"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/valueobject"
	"github.com/shandysiswandi/shopdesk/internal/shared/notify"
)

const NotificationTypeReminder = "agenda_reminder"

type RunRemindersOutput struct {
	Processed int `json:"processed"`
	Errors    int `json:"errors"`
}

// RunReminders delivers due reminders, oldest first, one batch per run. Rows
// are handled one by one and a failing row is counted, never fatal.
func (s *Usecase) RunReminders(ctx context.Context) (*RunRemindersOutput, error) {
	ctx, span := s.startSpan(ctx, "RunReminders")
	defer span.End()

	now := s.clock.Now()
	due, err := s.repoDB.ListDueReminders(ctx, now, reminderBatchSize)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list due reminders", "error", err)
		return nil, goerror.NewServer(err)
	}

	out := &RunRemindersOutput{}
	retryAfter := s.minutes("modules.agenda.retry_minutes", defaultRetryMinutes)

	for _, r := range due {
		if r.Event.Closed() {
			if err := s.repoDB.MarkReminderDelivered(ctx, r.ID, false); err != nil {
				slog.ErrorContext(ctx, "failed to repo mark reminder of closed event", "reminder_id", r.ID, "error", err)
				out.Errors++
				continue
			}
			out.Processed++
			continue
		}

		if _, err := s.notifier.Notify(ctx, reminderNotification(r)); err != nil {
			slog.ErrorContext(ctx, "failed to notify reminder", "reminder_id", r.ID, "event_id", r.EventID, "error", err)
			out.Errors++
			continue
		}

		if err := s.repoDB.MarkReminderDelivered(ctx, r.ID, true); err != nil {
			slog.ErrorContext(ctx, "failed to repo mark reminder delivered", "reminder_id", r.ID, "error", err)
			out.Errors++
			continue
		}

		// retry rows never chain another retry.
		if r.Event.Important && r.Type != entity.ReminderRetry15 {
			if err := s.repoDB.EnqueueReminder(ctx, r.EventID, now.Add(retryAfter), entity.ReminderRetry15); err != nil {
				slog.ErrorContext(ctx, "failed to repo enqueue retry reminder", "event_id", r.EventID, "error", err)
				out.Errors++
				continue
			}
		}

		out.Processed++
	}

	slog.InfoContext(ctx, "agenda reminders run", "due", len(due), "processed", out.Processed, "errors", out.Errors)
	return out, nil
}

func reminderNotification(r entity.DueReminder) notify.Notification {
	when := r.Event.Date.Format("02/01/2006")
	if r.Event.Time != nil {
		when += " " + *r.Event.Time
	}

	var title string
	switch r.Type {
	case entity.Reminder24h:
		title = "Rappel : demain"
	case entity.Reminder2h:
		title = "Rappel : dans 2 heures"
	case entity.ReminderRetry15:
		title = "Rappel important"
	default:
		title = "Rappel"
	}

	return notify.Notification{
		UserID:  r.Event.UserID,
		Type:    NotificationTypeReminder,
		Title:   title,
		Message: fmt.Sprintf("%s (%s)", r.Event.Title, when),
		Metadata: valueobject.JSONMap{
			"event_id":      r.EventID,
			"reminder_id":   r.ID,
			"reminder_type": string(r.Type),
		},
	}
}
