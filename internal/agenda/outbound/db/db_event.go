package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/shopdesk/internal/agenda/entity"
)

const eventColumns = `id, user_id::text, date, time, title, coalesce(description, ''), status, important, archived, created_at, updated_at`

func scanEvent(row pgx.Row) (entity.Event, error) {
	var e entity.Event
	err := row.Scan(&e.ID, &e.UserID, &e.Date, &e.Time, &e.Title, &e.Description, &e.Status,
		&e.Important, &e.Archived, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (s *DB) ListEvents(ctx context.Context, f entity.EventFilter) (_ []entity.Event, err error) {
	ctx, span := s.startSpan(ctx, "ListEvents")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		select `+eventColumns+`
		from agenda_events
		where user_id = $1::uuid
			and ($2::date is null or date >= $2::date)
			and ($3::date is null or date <= $3::date)
			and ($4::bool or not archived)
		order by date, time nulls first, id`,
		f.UserID, f.From, f.To, f.IncludeArchived,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Event, error) {
		return scanEvent(row)
	})
	return items, s.mapError(err)
}

func (s *DB) GetEvent(ctx context.Context, userID string, id int64) (_ entity.Event, err error) {
	ctx, span := s.startSpan(ctx, "GetEvent")
	defer func() { s.endSpan(span, err) }()

	e, err := scanEvent(s.conn.QueryRow(ctx, `
		select `+eventColumns+` from agenda_events
		where id = $1 and user_id = $2::uuid`, id, userID))
	return e, s.mapError(err)
}

func (s *DB) CreateEvent(ctx context.Context, in entity.SaveEvent) (_ entity.Event, err error) {
	ctx, span := s.startSpan(ctx, "CreateEvent")
	defer func() { s.endSpan(span, err) }()

	e, err := scanEvent(s.conn.QueryRow(ctx, `
		insert into agenda_events (user_id, date, time, title, description, status, important)
		values ($1::uuid, $2, $3, $4, $5, $6, $7)
		returning `+eventColumns,
		in.UserID, in.Date, in.Time, in.Title, in.Description, in.Status, in.Important,
	))
	return e, s.mapError(err)
}

func (s *DB) UpdateEvent(ctx context.Context, in entity.SaveEvent) (_ entity.Event, err error) {
	ctx, span := s.startSpan(ctx, "UpdateEvent")
	defer func() { s.endSpan(span, err) }()

	e, err := scanEvent(s.conn.QueryRow(ctx, `
		update agenda_events
		set date = $3, time = $4, title = $5, description = $6, important = $7, updated_at = now()
		where id = $1 and user_id = $2::uuid
		returning `+eventColumns,
		in.ID, in.UserID, in.Date, in.Time, in.Title, in.Description, in.Important,
	))
	return e, s.mapError(err)
}

func (s *DB) UpdateEventStatus(ctx context.Context, userID string, id int64, status entity.EventStatus) (_ entity.Event, err error) {
	ctx, span := s.startSpan(ctx, "UpdateEventStatus")
	defer func() { s.endSpan(span, err) }()

	e, err := scanEvent(s.conn.QueryRow(ctx, `
		update agenda_events set status = $3, updated_at = now()
		where id = $1 and user_id = $2::uuid
		returning `+eventColumns,
		id, userID, status,
	))
	return e, s.mapError(err)
}

func (s *DB) ArchiveEvent(ctx context.Context, userID string, id int64) (_ entity.Event, err error) {
	ctx, span := s.startSpan(ctx, "ArchiveEvent")
	defer func() { s.endSpan(span, err) }()

	e, err := scanEvent(s.conn.QueryRow(ctx, `
		update agenda_events set archived = true, updated_at = now()
		where id = $1 and user_id = $2::uuid
		returning `+eventColumns,
		id, userID,
	))
	return e, s.mapError(err)
}
