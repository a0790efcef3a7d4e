package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/shopdesk/internal/pkg/clock"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/idempotency"
	"github.com/shandysiswandi/shopdesk/internal/pkg/mail"
	"github.com/shandysiswandi/shopdesk/internal/pkg/valueobject"
	"github.com/shandysiswandi/shopdesk/internal/repair/entity"
	"github.com/shandysiswandi/shopdesk/internal/shared/notify"
)

const NotificationTypeDailyDigest = "repair_daily_digest"

var digestTemplate = template.Must(template.New("digest").Parse(`<!doctype html>
<html><body style="font-family:sans-serif">
<h2>Réparations du {{.Date}}</h2>
<table cellpadding="4" style="border-collapse:collapse">
{{range .Counts}}<tr><td>{{.Status}}</td><td style="text-align:right"><b>{{.Count}}</b></td></tr>
{{end}}</table>
{{if .Ready}}<h3>Prêtes à rendre ({{len .Ready}})</h3>
<ul>{{range .Ready}}<li>{{.Reference}} : {{.Device}} ({{.CustomerName}})</li>{{end}}</ul>{{end}}
{{if .Waiting}}<h3>En attente de pièces ({{len .Waiting}})</h3>
<ul>{{range .Waiting}}<li>{{.Reference}} : {{.Device}} ({{.CustomerName}})</li>{{end}}</ul>{{end}}
</body></html>`))

type digestCount struct {
	Status entity.Status
	Count  int
}

type digestView struct {
	Date    string
	Counts  []digestCount
	Ready   []entity.DigestRow
	Waiting []entity.DigestRow
}

type RunDailyDigestOutput struct {
	Skipped bool           `json:"skipped"`
	Counts  map[string]int `json:"counts,omitempty"`
	Emailed int            `json:"emailed"`
}

// RunDailyDigest summarizes open tickets once a day. A digest notification
// already stored today, or the redis key of the day, skips the run.
func (s *Usecase) RunDailyDigest(ctx context.Context) (*RunDailyDigestOutput, error) {
	ctx, span := s.startSpan(ctx, "RunDailyDigest")
	defer span.End()

	now := s.clock.Now()
	day := clock.StartOfDay(now)

	sent, err := s.repoDB.HasNotificationSince(ctx, NotificationTypeDailyDigest, day)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check digest of the day", "error", err)
		return nil, goerror.NewServer(err)
	}
	if sent {
		return &RunDailyDigestOutput{Skipped: true}, nil
	}

	out := &RunDailyDigestOutput{}
	key := "repairs-daily-digest:" + day.Format("2006-01-02")
	err = s.idempotency.Exec(ctx, key, func(ctx context.Context) error {
		return s.sendDigest(ctx, day, out)
	}, idempotency.WithLock(5*time.Minute), idempotency.WithTTL(36*time.Hour))
	if idempotency.Skipped(err) {
		return &RunDailyDigestOutput{Skipped: true}, nil
	}
	if err != nil {
		var gerr *goerror.Error
		if errors.As(err, &gerr) {
			return nil, err
		}
		slog.ErrorContext(ctx, "failed to run daily digest", "key", key, "error", err)
		return nil, goerror.NewServer(err)
	}

	return out, nil
}

func (s *Usecase) sendDigest(ctx context.Context, day time.Time, out *RunDailyDigestOutput) error {
	rows, err := s.repoDB.ListOpenTickets(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list open tickets", "error", err)
		return goerror.NewServer(err)
	}

	byStatus := lo.CountValuesBy(rows, func(r entity.DigestRow) entity.Status { return r.Status })
	view := digestView{
		Date: day.Format("02/01/2006"),
		Counts: lo.FilterMap(entity.Statuses, func(st entity.Status, _ int) (digestCount, bool) {
			return digestCount{Status: st, Count: byStatus[st]}, byStatus[st] > 0
		}),
		Ready:   lo.Filter(rows, func(r entity.DigestRow, _ int) bool { return r.Status == entity.StatusReadyToReturn }),
		Waiting: lo.Filter(rows, func(r entity.DigestRow, _ int) bool { return r.Status == entity.StatusWaitingParts }),
	}

	out.Counts = lo.MapEntries(byStatus, func(k entity.Status, v int) (string, int) { return string(k), v })

	_, err = s.notifier.Notify(ctx, notify.Notification{
		Type:    NotificationTypeDailyDigest,
		Title:   "Récapitulatif des réparations",
		Message: fmt.Sprintf("%d en cours, %d prêtes à rendre, %d en attente de pièces", len(rows), len(view.Ready), len(view.Waiting)),
		Metadata: valueobject.JSONMap{
			"date":            day.Format("2006-01-02"),
			"counts":          out.Counts,
			"ready_to_return": lo.Map(view.Ready, func(r entity.DigestRow, _ int) string { return r.Reference }),
			"waiting_parts":   lo.Map(view.Waiting, func(r entity.DigestRow, _ int) string { return r.Reference }),
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to notify daily digest", "error", err)
		return goerror.NewServer(err)
	}

	recipients := s.cfg.GetArray("modules.repair.digest.recipients")
	if len(recipients) == 0 {
		return nil
	}

	var body bytes.Buffer
	if err := digestTemplate.Execute(&body, view); err != nil {
		slog.ErrorContext(ctx, "failed to render daily digest", "error", err)
		return nil
	}

	err = s.mail.Send(ctx, mail.Message{
		From:     s.cfg.GetString("mail.from"),
		To:       recipients,
		Subject:  "Récapitulatif des réparations du " + view.Date,
		TextBody: fmt.Sprintf("%d réparations en cours.", len(rows)),
		HTMLBody: body.String(),
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to email daily digest", "recipients", len(recipients), "error", err)
		return nil
	}

	out.Emailed = len(recipients)
	return nil
}
