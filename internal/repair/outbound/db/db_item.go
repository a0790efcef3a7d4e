package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/shopdesk/internal/repair/entity"
)

func (s *DB) ListItems(ctx context.Context, repairID int64) (_ []entity.Item, err error) {
	ctx, span := s.startSpan(ctx, "ListItems")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		select id, repair_id, product_id, stock_id, quantity, serial, reserved, reservation_id
		from repair_items where repair_id = $1 order by id`, repairID)
	if err != nil {
		return nil, s.mapError(err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Item, error) {
		var it entity.Item
		err := row.Scan(&it.ID, &it.RepairID, &it.ProductID, &it.StockID, &it.Quantity, &it.Serial,
			&it.Reserved, &it.ReservationID)
		return it, err
	})
	return items, s.mapError(err)
}

// ReserveStock attaches a part to the ticket and reserves it. It returns the
// repair item id.
func (s *DB) ReserveStock(ctx context.Context, in entity.Reservation) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "ReserveStock")
	defer func() { s.endSpan(span, err) }()

	var id int64
	err = s.conn.QueryRow(ctx, `
		select fn_repair_reserve_stock(
			p_repair_id => $1, p_product_id => $2, p_stock_id => $3, p_quantity => $4, p_serial => $5
		)`,
		in.RepairID, in.ProductID, in.StockID, in.Quantity, in.Serial,
	).Scan(&id)
	return id, s.mapRPCError(err)
}

// ReleaseReservations frees the reservations of the ticket, or of one item
// when itemID is set, and returns how many were released.
func (s *DB) ReleaseReservations(ctx context.Context, repairID int64, itemID *int64) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "ReleaseReservations")
	defer func() { s.endSpan(span, err) }()

	var n int64
	err = s.conn.QueryRow(ctx, `
		select coalesce(fn_repair_release_reservations(p_repair_id => $1, p_item_id => $2), 0)`,
		repairID, itemID,
	).Scan(&n)
	return n, s.mapRPCError(err)
}

func (s *DB) ListAvailableStock(ctx context.Context, productID int64) (_ []entity.StockLevel, err error) {
	ctx, span := s.startSpan(ctx, "ListAvailableStock")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		select product_id, stock_id, stock_name, available
		from stock_levels
		where product_id = $1 and available > 0
		order by available desc, stock_id`, productID)
	if err != nil {
		return nil, s.mapError(err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByPos[entity.StockLevel])
	return items, s.mapError(err)
}
