package inbound

import (
	"time"

	"github.com/shandysiswandi/shopdesk/internal/consignment/entity"
	"github.com/shopspring/decimal"
)

type CreateMoveRequest struct {
	StockID       int64           `json:"stock_id"`
	ProductID     int64           `json:"product_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Amount        decimal.Decimal `json:"amount"`
	InvoiceItemID *int64          `json:"invoice_item_id"`
	Note          string          `json:"note"`
}

type MoveResponse struct {
	ID            int64           `json:"id"`
	StockID       int64           `json:"stock_id"`
	ProductID     int64           `json:"product_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Amount        decimal.Decimal `json:"amount"`
	InvoiceItemID *int64          `json:"invoice_item_id"`
	Note          string          `json:"note"`
	CreatedBy     *string         `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toMoveResponse(m entity.Move) MoveResponse {
	return MoveResponse{
		ID:            m.ID,
		StockID:       m.StockID,
		ProductID:     m.ProductID,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		Amount:        m.Amount,
		InvoiceItemID: m.InvoiceItemID,
		Note:          m.Note,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}
