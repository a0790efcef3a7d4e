package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/shopdesk/internal/repair/entity"
)

func (s *DB) ListPhotos(ctx context.Context, repairID int64) (_ []entity.Photo, err error) {
	ctx, span := s.startSpan(ctx, "ListPhotos")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		select id, repair_id, url, created_at from repair_photos where repair_id = $1 order by id`, repairID)
	if err != nil {
		return nil, s.mapError(err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByPos[entity.Photo])
	return items, s.mapError(err)
}

func (s *DB) AddPhoto(ctx context.Context, repairID int64, url string) (_ entity.Photo, err error) {
	ctx, span := s.startSpan(ctx, "AddPhoto")
	defer func() { s.endSpan(span, err) }()

	var p entity.Photo
	err = s.conn.QueryRow(ctx, `
		insert into repair_photos (repair_id, url) values ($1, $2)
		returning id, repair_id, url, created_at`,
		repairID, url,
	).Scan(&p.ID, &p.RepairID, &p.URL, &p.CreatedAt)
	return p, s.mapError(err)
}
