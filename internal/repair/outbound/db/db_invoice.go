package db

import "context"

// FinalizeInvoice turns the ticket parts and labour into an invoice.
func (s *DB) FinalizeInvoice(ctx context.Context, repairID int64) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "FinalizeInvoice")
	defer func() { s.endSpan(span, err) }()

	var id int64
	err = s.conn.QueryRow(ctx, `select finalize_invoice(p_repair_id => $1)`, repairID).Scan(&id)
	return id, s.mapRPCError(err)
}
