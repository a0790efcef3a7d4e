package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/roadmap/entity"
)

const templateColumns = `id, user_id::text, name, title, coalesce(description, ''), time, important, created_at`

func scanTemplate(row pgx.Row) (entity.Template, error) {
	var t entity.Template
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Title, &t.Description, &t.Time, &t.Important, &t.CreatedAt)
	return t, err
}

func (s *DB) ListTemplates(ctx context.Context, userID string) (_ []entity.Template, err error) {
	ctx, span := s.startSpan(ctx, "ListTemplates")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		select `+templateColumns+` from roadmap_templates
		where user_id = $1::uuid order by name, id`, userID)
	if err != nil {
		return nil, s.mapError(err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Template, error) {
		return scanTemplate(row)
	})
	return items, s.mapError(err)
}

func (s *DB) GetTemplate(ctx context.Context, userID string, id int64) (_ entity.Template, err error) {
	ctx, span := s.startSpan(ctx, "GetTemplate")
	defer func() { s.endSpan(span, err) }()

	t, err := scanTemplate(s.conn.QueryRow(ctx, `
		select `+templateColumns+` from roadmap_templates
		where id = $1 and user_id = $2::uuid`, id, userID))
	return t, s.mapError(err)
}

func (s *DB) CreateTemplate(ctx context.Context, in entity.Template) (_ entity.Template, err error) {
	ctx, span := s.startSpan(ctx, "CreateTemplate")
	defer func() { s.endSpan(span, err) }()

	t, err := scanTemplate(s.conn.QueryRow(ctx, `
		insert into roadmap_templates (user_id, name, title, description, time, important)
		values ($1::uuid, $2, $3, $4, $5, $6)
		returning `+templateColumns,
		in.UserID, in.Name, in.Title, in.Description, in.Time, in.Important,
	))
	return t, s.mapError(err)
}

func (s *DB) DeleteTemplate(ctx context.Context, userID string, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteTemplate")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `delete from roadmap_templates where id = $1 and user_id = $2::uuid`, id, userID)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}
	return nil
}
