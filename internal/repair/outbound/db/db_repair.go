package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/shopdesk/internal/repair/entity"
)

const repairColumns = `id, reference, customer_name, coalesce(customer_phone, ''), coalesce(device, ''),
	coalesce(description, ''), status, invoice_id, drying_start_at, drying_end_at, drying_acknowledged_at,
	drying_notified_at, signature_url, coalesce(created_by::text, ''), created_at, updated_at`

func scanRepair(row pgx.Row) (entity.Repair, error) {
	var r entity.Repair
	err := row.Scan(&r.ID, &r.Reference, &r.CustomerName, &r.CustomerPhone, &r.Device, &r.Description,
		&r.Status, &r.InvoiceID, &r.DryingStartAt, &r.DryingEndAt, &r.DryingAcknowledgedAt,
		&r.DryingNotifiedAt, &r.SignatureURL, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func collectRepairs(rows pgx.Rows) ([]entity.Repair, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Repair, error) {
		return scanRepair(row)
	})
}

func (s *DB) ListRepairs(ctx context.Context, status *entity.Status, limit, offset int32) (_ []entity.Repair, err error) {
	ctx, span := s.startSpan(ctx, "ListRepairs")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		select `+repairColumns+`
		from repair_tickets
		where ($1::text is null or status = $1::text)
		order by created_at desc, id desc
		limit $2 offset $3`,
		status, limit, offset,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	items, err := collectRepairs(rows)
	return items, s.mapError(err)
}

func (s *DB) CountRepairs(ctx context.Context, status *entity.Status) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CountRepairs")
	defer func() { s.endSpan(span, err) }()

	var n int64
	err = s.conn.QueryRow(ctx, `
		select count(*) from repair_tickets where ($1::text is null or status = $1::text)`,
		status,
	).Scan(&n)
	return n, s.mapError(err)
}

func (s *DB) GetRepair(ctx context.Context, id int64) (_ entity.Repair, err error) {
	ctx, span := s.startSpan(ctx, "GetRepair")
	defer func() { s.endSpan(span, err) }()

	r, err := scanRepair(s.conn.QueryRow(ctx, `select `+repairColumns+` from repair_tickets where id = $1`, id))
	return r, s.mapError(err)
}

func (s *DB) CreateRepair(ctx context.Context, in entity.CreateRepair) (_ entity.Repair, err error) {
	ctx, span := s.startSpan(ctx, "CreateRepair")
	defer func() { s.endSpan(span, err) }()

	r, err := scanRepair(s.conn.QueryRow(ctx, `
		insert into repair_tickets (reference, customer_name, customer_phone, device, description, status, created_by)
		values ($1, $2, $3, $4, $5, $6, $7::uuid)
		returning `+repairColumns,
		in.Reference, in.CustomerName, in.CustomerPhone, in.Device, in.Description, entity.StatusQuoteTodo, in.CreatedBy,
	))
	return r, s.mapError(err)
}

func (s *DB) UpdateStatus(ctx context.Context, id int64, status entity.Status) (_ entity.Repair, err error) {
	ctx, span := s.startSpan(ctx, "UpdateStatus")
	defer func() { s.endSpan(span, err) }()

	r, err := scanRepair(s.conn.QueryRow(ctx, `
		update repair_tickets set status = $2, updated_at = now()
		where id = $1
		returning `+repairColumns,
		id, status,
	))
	return r, s.mapError(err)
}

// NoteLatestHistory sets the note of the newest status history row.
func (s *DB) NoteLatestHistory(ctx context.Context, repairID int64, note string) (err error) {
	ctx, span := s.startSpan(ctx, "NoteLatestHistory")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		update repair_status_history set note = $2
		where id = (
			select id from repair_status_history
			where repair_id = $1
			order by created_at desc, id desc
			limit 1
		)`,
		repairID, note,
	)
	return s.mapError(err)
}

func (s *DB) StartDrying(ctx context.Context, id int64, start, end time.Time) (_ entity.Repair, err error) {
	ctx, span := s.startSpan(ctx, "StartDrying")
	defer func() { s.endSpan(span, err) }()

	r, err := scanRepair(s.conn.QueryRow(ctx, `
		update repair_tickets
		set status = $2, drying_start_at = $3, drying_end_at = $4,
			drying_acknowledged_at = null, drying_notified_at = null, updated_at = now()
		where id = $1
		returning `+repairColumns,
		id, entity.StatusDrying, start, end,
	))
	return r, s.mapError(err)
}

func (s *DB) AcknowledgeDrying(ctx context.Context, id int64, at time.Time) (_ entity.Repair, err error) {
	ctx, span := s.startSpan(ctx, "AcknowledgeDrying")
	defer func() { s.endSpan(span, err) }()

	r, err := scanRepair(s.conn.QueryRow(ctx, `
		update repair_tickets set drying_acknowledged_at = $2, updated_at = now()
		where id = $1
		returning `+repairColumns,
		id, at,
	))
	return r, s.mapError(err)
}

// ListDryingDue returns drying tickets past their end that nobody
// acknowledged or got notified about.
func (s *DB) ListDryingDue(ctx context.Context, now time.Time) (_ []entity.Repair, err error) {
	ctx, span := s.startSpan(ctx, "ListDryingDue")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		select `+repairColumns+`
		from repair_tickets
		where status = $1 and drying_end_at <= $2
			and drying_acknowledged_at is null and drying_notified_at is null
		order by drying_end_at, id`,
		entity.StatusDrying, now,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	items, err := collectRepairs(rows)
	return items, s.mapError(err)
}

func (s *DB) MarkDryingNotified(ctx context.Context, id int64, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "MarkDryingNotified")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `update repair_tickets set drying_notified_at = $2 where id = $1`, id, at)
	return s.mapError(err)
}

func (s *DB) SetSignature(ctx context.Context, id int64, url string) (_ entity.Repair, err error) {
	ctx, span := s.startSpan(ctx, "SetSignature")
	defer func() { s.endSpan(span, err) }()

	r, err := scanRepair(s.conn.QueryRow(ctx, `
		update repair_tickets set signature_url = $2, updated_at = now()
		where id = $1
		returning `+repairColumns,
		id, url,
	))
	return r, s.mapError(err)
}

func (s *DB) SetInvoice(ctx context.Context, id, invoiceID int64) (_ entity.Repair, err error) {
	ctx, span := s.startSpan(ctx, "SetInvoice")
	defer func() { s.endSpan(span, err) }()

	r, err := scanRepair(s.conn.QueryRow(ctx, `
		update repair_tickets set invoice_id = $2, updated_at = now()
		where id = $1
		returning `+repairColumns,
		id, invoiceID,
	))
	return r, s.mapError(err)
}
