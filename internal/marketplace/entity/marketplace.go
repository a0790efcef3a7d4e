package entity

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountStatusPending AccountStatus = "pending"
	AccountStatusActive  AccountStatus = "active"
	AccountStatusRevoked AccountStatus = "revoked"
)

var ErrDuplicateRefund = errors.New("marketplace: duplicate refund")

// Account is an OAuth grant of a marketplace seller account. A pending
// account only holds the state of an authorization in flight.
type Account struct {
	ID              int64
	UserID          string
	Provider        string
	Status          AccountStatus
	State           *string
	Scope           string
	RefreshTokenEnc []byte
	AccessExpiresAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type CreatePending struct {
	UserID   string
	Provider string
	State    string
	Scope    string
}

type Activate struct {
	ID              int64
	Scope           string
	RefreshTokenEnc []byte
	AccessExpiresAt *time.Time
}

// Refund is a marketplace refund line sent by the order sync.
type Refund struct {
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
