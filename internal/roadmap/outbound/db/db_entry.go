package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/shopdesk/internal/roadmap/entity"
)

const entryColumns = `id, user_id::text, date, time, title, coalesce(description, ''), status, important, archived,
	template_id, created_at, updated_at`

func scanEntry(row pgx.Row) (entity.Entry, error) {
	var e entity.Entry
	err := row.Scan(&e.ID, &e.UserID, &e.Date, &e.Time, &e.Title, &e.Description, &e.Status,
		&e.Important, &e.Archived, &e.TemplateID, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func collectEntries(rows pgx.Rows) ([]entity.Entry, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Entry, error) {
		return scanEntry(row)
	})
}

func (s *DB) ListEntries(ctx context.Context, f entity.EntryFilter) (_ []entity.Entry, err error) {
	ctx, span := s.startSpan(ctx, "ListEntries")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		select `+entryColumns+`
		from roadmap_entries
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

	items, err := collectEntries(rows)
	return items, s.mapError(err)
}

func (s *DB) CreateEntry(ctx context.Context, in entity.SaveEntry) (_ entity.Entry, err error) {
	ctx, span := s.startSpan(ctx, "CreateEntry")
	defer func() { s.endSpan(span, err) }()

	e, err := scanEntry(s.conn.QueryRow(ctx, `
		insert into roadmap_entries (user_id, date, time, title, description, status, important, template_id)
		values ($1::uuid, $2, $3, $4, $5, $6, $7, $8)
		returning `+entryColumns,
		in.UserID, in.Date, in.Time, in.Title, in.Description, in.Status, in.Important, in.TemplateID,
	))
	return e, s.mapError(err)
}

func (s *DB) UpdateEntry(ctx context.Context, in entity.SaveEntry) (_ entity.Entry, err error) {
	ctx, span := s.startSpan(ctx, "UpdateEntry")
	defer func() { s.endSpan(span, err) }()

	e, err := scanEntry(s.conn.QueryRow(ctx, `
		update roadmap_entries
		set date = $3, time = $4, title = $5, description = $6, important = $7, updated_at = now()
		where id = $1 and user_id = $2::uuid
		returning `+entryColumns,
		in.ID, in.UserID, in.Date, in.Time, in.Title, in.Description, in.Important,
	))
	return e, s.mapError(err)
}

func (s *DB) UpdateEntryStatus(ctx context.Context, userID string, id int64, status entity.EntryStatus) (_ entity.Entry, err error) {
	ctx, span := s.startSpan(ctx, "UpdateEntryStatus")
	defer func() { s.endSpan(span, err) }()

	e, err := scanEntry(s.conn.QueryRow(ctx, `
		update roadmap_entries set status = $3, updated_at = now()
		where id = $1 and user_id = $2::uuid
		returning `+entryColumns,
		id, userID, status,
	))
	return e, s.mapError(err)
}

func (s *DB) ArchiveEntry(ctx context.Context, userID string, id int64) (_ entity.Entry, err error) {
	ctx, span := s.startSpan(ctx, "ArchiveEntry")
	defer func() { s.endSpan(span, err) }()

	e, err := scanEntry(s.conn.QueryRow(ctx, `
		update roadmap_entries set archived = true, updated_at = now()
		where id = $1 and user_id = $2::uuid
		returning `+entryColumns,
		id, userID,
	))
	return e, s.mapError(err)
}

// ListOpenEntriesUntil returns open entries of every user dated on or before day.
func (s *DB) ListOpenEntriesUntil(ctx context.Context, day time.Time) (_ []entity.Entry, err error) {
	ctx, span := s.startSpan(ctx, "ListOpenEntriesUntil")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		select `+entryColumns+`
		from roadmap_entries
		where not archived and status <> 'fait' and date <= $1::date
		order by date, time nulls first, id`,
		day,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	items, err := collectEntries(rows)
	return items, s.mapError(err)
}
