package db

import "context"

// InsertMissingInvoiceMoves books an INVOICE move for every invoice line on a
// consignment stock that has none yet.
func (s *DB) InsertMissingInvoiceMoves(ctx context.Context) (n int64, err error) {
	ctx, span := s.startSpan(ctx, "InsertMissingInvoiceMoves")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		insert into consignment_moves (stock_id, product_id, type, quantity, amount, invoice_item_id, note)
		select ii.stock_id, ii.product_id, 'INVOICE', ii.quantity, ii.total, ii.id, 'invoice ' || i.number
		from invoice_items ii
		join invoices i on i.id = ii.invoice_id
		join stocks st on st.id = ii.stock_id and st.is_consignment
		where i.status <> 'draft'
		  and not exists (
		    select 1 from consignment_moves m
		    where m.type = 'INVOICE' and m.invoice_item_id = ii.id
		  )`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// InsertMissingPaymentMoves books a PAYMENT move for every invoiced
// consignment line whose invoice is paid.
func (s *DB) InsertMissingPaymentMoves(ctx context.Context) (n int64, err error) {
	ctx, span := s.startSpan(ctx, "InsertMissingPaymentMoves")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		insert into consignment_moves (stock_id, product_id, type, quantity, amount, invoice_item_id, note)
		select m.stock_id, m.product_id, 'PAYMENT', 0, m.amount, m.invoice_item_id, 'payment ' || i.number
		from consignment_moves m
		join invoice_items ii on ii.id = m.invoice_item_id
		join invoices i on i.id = ii.invoice_id
		where m.type = 'INVOICE'
		  and i.status = 'paid'
		  and not exists (
		    select 1 from consignment_moves p
		    where p.type = 'PAYMENT' and p.invoice_item_id = m.invoice_item_id
		  )`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
