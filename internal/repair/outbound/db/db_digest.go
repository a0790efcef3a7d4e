package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/shopdesk/internal/repair/entity"
)

// ListOpenTickets returns every non archived ticket for the digest.
func (s *DB) ListOpenTickets(ctx context.Context) (_ []entity.DigestRow, err error) {
	ctx, span := s.startSpan(ctx, "ListOpenTickets")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		select id, reference, customer_name, coalesce(device, ''), status
		from repair_tickets
		where status <> $1
		order by created_at, id`, entity.StatusArchived)
	if err != nil {
		return nil, s.mapError(err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByPos[entity.DigestRow])
	return items, s.mapError(err)
}

// HasNotificationSince reports whether a notification of typ exists since t.
func (s *DB) HasNotificationSince(ctx context.Context, typ string, t time.Time) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "HasNotificationSince")
	defer func() { s.endSpan(span, err) }()

	var ok bool
	err = s.conn.QueryRow(ctx, `
		select exists(select 1 from notifications where type = $1 and created_at >= $2)`,
		typ, t,
	).Scan(&ok)
	return ok, s.mapError(err)
}
