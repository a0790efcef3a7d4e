package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/valueobject"
	"github.com/shandysiswandi/shopdesk/internal/roadmap/entity"
	"github.com/shandysiswandi/shopdesk/internal/shared/notify"
)

const (
	NotificationTypeDue     = "roadmap_due"
	NotificationTypeOverdue = "roadmap_overdue"
)

type RunNotificationsOutput struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

// RunNotifications raises at most one due and one overdue notification per
// entry and day.
func (s *Usecase) RunNotifications(ctx context.Context) (*RunNotificationsOutput, error) {
	ctx, span := s.startSpan(ctx, "RunNotifications")
	defer span.End()

	now := s.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	lead := time.Duration(defaultLeadMinutes) * time.Minute
	if n := s.cfg.GetInt("modules.roadmap.lead_minutes"); n > 0 {
		lead = time.Duration(n) * time.Minute
	}

	entries, err := s.repoDB.ListOpenEntriesUntil(ctx, today)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list open roadmap entries", "error", err)
		return nil, goerror.NewServer(err)
	}

	out := &RunNotificationsOutput{}
	for _, e := range entries {
		kind, ok := classify(e, now, today, lead)
		if !ok {
			continue
		}

		claimed, err := s.repoDB.RecordNotification(ctx, e.ID, kind, today)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo record roadmap notification", "entry_id", e.ID, "kind", kind, "error", err)
			out.Errors++
			continue
		}
		if !claimed {
			out.Skipped++
			continue
		}

		if _, err := s.notifier.Notify(ctx, entryNotification(e, kind)); err != nil {
			slog.ErrorContext(ctx, "failed to notify roadmap entry", "entry_id", e.ID, "kind", kind, "error", err)
			if ferr := s.repoDB.ForgetNotification(ctx, e.ID, kind, today); ferr != nil {
				slog.WarnContext(ctx, "failed to repo forget roadmap notification", "entry_id", e.ID, "error", ferr)
			}
			out.Errors++
			continue
		}

		out.Processed++
	}

	slog.InfoContext(ctx, "roadmap notifications run",
		"candidates", len(entries), "processed", out.Processed, "skipped", out.Skipped, "errors", out.Errors)
	return out, nil
}

// classify tells whether an open entry is due today or overdue. An entry of
// today with a time is due once now reaches time minus lead.
func classify(e entity.Entry, now, today time.Time, lead time.Duration) (entity.NotificationKind, bool) {
	day := time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, time.UTC)
	switch {
	case day.Before(today):
		return entity.NotificationOverdue, true
	case !day.Equal(today):
		return "", false
	case e.Time == nil:
		return entity.NotificationDue, true
	}

	at, err := time.ParseInLocation(timeLayout, *e.Time, now.Location())
	if err != nil {
		return entity.NotificationDue, true
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())

	return entity.NotificationDue, !now.Before(start.Add(-lead))
}

func entryNotification(e entity.Entry, kind entity.NotificationKind) notify.Notification {
	n := notify.Notification{
		UserID: e.UserID,
		Metadata: valueobject.JSONMap{
			"entry_id": e.ID,
			"kind":     string(kind),
		},
	}

	if kind == entity.NotificationOverdue {
		n.Type = NotificationTypeOverdue
		n.Title = "Feuille de route : en retard"
		n.Message = fmt.Sprintf("%s (prévu le %s)", e.Title, e.Date.Format("02/01/2006"))
		return n
	}

	n.Type = NotificationTypeDue
	n.Title = "Feuille de route : à faire"
	n.Message = e.Title
	if e.Time != nil {
		n.Message = fmt.Sprintf("%s à %s", e.Title, *e.Time)
	}
	return n
}
