package inbound

import (
	"time"

	"github.com/shandysiswandi/shopdesk/internal/marketplace/entity"
	"github.com/shopspring/decimal"
)

type AccountResponse struct {
	ID              int64      `json:"id"`
	Provider        string     `json:"provider"`
	Status          string     `json:"status"`
	Scope           string     `json:"scope"`
	AccessExpiresAt *time.Time `json:"access_expires_at"`
	ConnectedBy     string     `json:"connected_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type IngestRefundRequest struct {
	Provider   string          `json:"provider"`
	OrderID    string          `json:"order_id"`
	RefundID   string          `json:"refund_id"`
	SKU        string          `json:"sku"`
	Quantity   int32           `json:"quantity"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Reason     string          `json:"reason"`
	RefundedAt time.Time       `json:"refunded_at"`
}

type IngestRefundResponse struct {
	ID int64 `json:"id"`
}

func toAccountResponse(a entity.Account) AccountResponse {
	return AccountResponse{
		ID:              a.ID,
		Provider:        a.Provider,
		Status:          string(a.Status),
		Scope:           a.Scope,
		AccessExpiresAt: a.AccessExpiresAt,
		ConnectedBy:     a.UserID,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
