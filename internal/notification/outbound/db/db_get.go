package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/shopdesk/internal/notification/entity"
)

// visible selects the rows of a user plus the global ones.
const visible = `deleted_at is null and (user_id = $1::uuid or user_id is null)`

const statusFilter = `($2::text = 'all' or ($2::text = 'unread' and not read) or ($2::text = 'read' and read))`

func (s *DB) ListNotifications(ctx context.Context, userID string, status entity.NotificationStatus, limit, offset int32) (_ []entity.Notification, err error) {
	ctx, span := s.startSpan(ctx, "ListNotifications")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		select id, user_id::text, type, title, message, read, metadata, created_at
		from notifications
		where `+visible+` and `+statusFilter+`
		order by created_at desc, id desc
		limit $3 offset $4`,
		userID, string(status), limit, offset,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Notification, error) {
		var n entity.Notification
		err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Read, &n.Metadata, &n.CreatedAt)
		return n, err
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}

func (s *DB) CountNotifications(ctx context.Context, userID string, status entity.NotificationStatus) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CountNotifications")
	defer func() { s.endSpan(span, err) }()

	var count int64
	err = s.conn.QueryRow(ctx, `
		select count(*) from notifications
		where `+visible+` and `+statusFilter,
		userID, string(status),
	).Scan(&count)

	return count, s.mapError(err)
}
