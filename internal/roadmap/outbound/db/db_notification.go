package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/shopdesk/internal/roadmap/entity"
)

// RecordNotification claims (entry, kind, day). It reports false when the
// claim already exists.
func (s *DB) RecordNotification(ctx context.Context, entryID int64, kind entity.NotificationKind, day time.Time) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "RecordNotification")
	defer func() { s.endSpan(span, err) }()

	var id int64
	err = s.conn.QueryRow(ctx, `
		insert into roadmap_notifications (entry_id, kind, day)
		values ($1, $2, $3::date)
		on conflict (entry_id, kind, day) do nothing
		returning id`,
		entryID, kind, day,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, s.mapError(err)
	}
	return true, nil
}

func (s *DB) ForgetNotification(ctx context.Context, entryID int64, kind entity.NotificationKind, day time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "ForgetNotification")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		delete from roadmap_notifications where entry_id = $1 and kind = $2 and day = $3::date`,
		entryID, kind, day)
	return s.mapError(err)
}
