package db

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/shopdesk/internal/marketplace/entity"
)

// IngestRefund hands the refund to the ingest_amazon_refund procedure, which
// books the stock return and returns the refund row id.
func (s *DB) IngestRefund(ctx context.Context, in entity.Refund) (id int64, err error) {
	ctx, span := s.startSpan(ctx, "IngestRefund")
	defer func() { s.endSpan(span, err) }()

	payload, err := json.Marshal(in)
	if err != nil {
		return 0, err
	}

	err = s.conn.QueryRow(ctx, `select ingest_amazon_refund(p_payload => $1::jsonb)`, payload).Scan(&id)
	return id, s.mapRPCError(err)
}
