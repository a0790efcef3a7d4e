package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoveType is the kind of an append-only consignment ledger line.
type MoveType string

const (
	MoveOut     MoveType = "OUT"
	MoveReturn  MoveType = "RETURN"
	MoveInvoice MoveType = "INVOICE"
	MovePayment MoveType = "PAYMENT"
)

// NeedsQuantity reports whether the move carries goods.
func (t MoveType) NeedsQuantity() bool {
	return t == MoveOut || t == MoveReturn || t == MoveInvoice
}

// NeedsInvoiceItem reports whether the move refers to an invoice line.
func (t MoveType) NeedsInvoiceItem() bool {
	return t == MoveInvoice || t == MovePayment
}

type Move struct {
	ID            int64
	StockID       int64
	ProductID     int64
	Type          MoveType
	Quantity      decimal.Decimal
	Amount        decimal.Decimal
	InvoiceItemID *int64
	Note          string
	CreatedBy     *string
	CreatedAt     time.Time
}

type MoveFilter struct {
	StockID   *int64
	ProductID *int64
	Limit     int32
	Offset    int32
}

type CreateMove struct {
	StockID       int64
	ProductID     int64
	Type          MoveType
	Quantity      decimal.Decimal
	Amount        decimal.Decimal
	InvoiceItemID *int64
	Note          string
	CreatedBy     string
}

// MoveTotal sums the moves of one type for a (stock, product) pair.
type MoveTotal struct {
	StockID   int64
	ProductID int64
	Type      MoveType
	Quantity  decimal.Decimal
	Amount    decimal.Decimal
}

// Balance is what a consignee holds and owes for a product.
type Balance struct {
	StockID   int64           `json:"stock_id"`
	ProductID int64           `json:"product_id"`
	Held      decimal.Decimal `json:"held"`
	Due       decimal.Decimal `json:"due"`
}

// UnpaidInvoice is an INVOICE move without a matching PAYMENT.
type UnpaidInvoice struct {
	InvoiceItemID int64
	StockID       int64
	StockName     string
	ProductID     int64
	Amount        decimal.Decimal
	InvoicedAt    time.Time
}
