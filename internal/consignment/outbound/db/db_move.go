package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/shopdesk/internal/consignment/entity"
)

const moveColumns = `id, stock_id, product_id, type, quantity, amount, invoice_item_id,
	coalesce(note, ''), created_by::text, created_at`

func scanMove(row pgx.Row) (entity.Move, error) {
	var m entity.Move
	err := row.Scan(&m.ID, &m.StockID, &m.ProductID, &m.Type, &m.Quantity, &m.Amount,
		&m.InvoiceItemID, &m.Note, &m.CreatedBy, &m.CreatedAt)
	return m, err
}

func (s *DB) ListMoves(ctx context.Context, f entity.MoveFilter) (_ []entity.Move, err error) {
	ctx, span := s.startSpan(ctx, "ListMoves")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		select `+moveColumns+`
		from consignment_moves
		where ($1::bigint is null or stock_id = $1)
		  and ($2::bigint is null or product_id = $2)
		order by created_at desc, id desc
		limit $3 offset $4`,
		f.StockID, f.ProductID, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	moves, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Move, error) {
		return scanMove(row)
	})
	return moves, s.mapError(err)
}

func (s *DB) CountMoves(ctx context.Context, f entity.MoveFilter) (n int64, err error) {
	ctx, span := s.startSpan(ctx, "CountMoves")
	defer func() { s.endSpan(span, err) }()

	err = s.conn.QueryRow(ctx, `
		select count(*)
		from consignment_moves
		where ($1::bigint is null or stock_id = $1)
		  and ($2::bigint is null or product_id = $2)`,
		f.StockID, f.ProductID,
	).Scan(&n)
	return n, s.mapError(err)
}

func (s *DB) CreateMove(ctx context.Context, in entity.CreateMove) (_ entity.Move, err error) {
	ctx, span := s.startSpan(ctx, "CreateMove")
	defer func() { s.endSpan(span, err) }()

	m, err := scanMove(s.conn.QueryRow(ctx, `
		insert into consignment_moves (stock_id, product_id, type, quantity, amount, invoice_item_id, note, created_by)
		values ($1, $2, $3, $4, $5, $6, nullif($7, ''), $8::uuid)
		returning `+moveColumns,
		in.StockID, in.ProductID, in.Type, in.Quantity, in.Amount, in.InvoiceItemID, in.Note, in.CreatedBy,
	))
	return m, s.mapError(err)
}

// SumMoves totals moves per (stock, product, type).
func (s *DB) SumMoves(ctx context.Context, stockID *int64) (_ []entity.MoveTotal, err error) {
	ctx, span := s.startSpan(ctx, "SumMoves")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		select stock_id, product_id, type, coalesce(sum(quantity), 0), coalesce(sum(amount), 0)
		from consignment_moves
		where ($1::bigint is null or stock_id = $1)
		group by stock_id, product_id, type
		order by stock_id, product_id`,
		stockID,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	totals, err := pgx.CollectRows(rows, pgx.RowToStructByPos[entity.MoveTotal])
	return totals, s.mapError(err)
}

// ListUnpaidInvoices returns INVOICE moves booked before until that no
// PAYMENT move settles.
func (s *DB) ListUnpaidInvoices(ctx context.Context, until time.Time) (_ []entity.UnpaidInvoice, err error) {
	ctx, span := s.startSpan(ctx, "ListUnpaidInvoices")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		select m.invoice_item_id, m.stock_id, coalesce(st.name, ''), m.product_id, m.amount, m.created_at
		from consignment_moves m
		left join stocks st on st.id = m.stock_id
		where m.type = 'INVOICE'
		  and m.invoice_item_id is not null
		  and m.created_at < $1
		  and not exists (
		    select 1 from consignment_moves p
		    where p.type = 'PAYMENT' and p.invoice_item_id = m.invoice_item_id
		  )
		order by m.created_at`,
		until,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	invoices, err := pgx.CollectRows(rows, pgx.RowToStructByPos[entity.UnpaidInvoice])
	return invoices, s.mapError(err)
}
