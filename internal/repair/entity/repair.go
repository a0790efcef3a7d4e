package entity

import (
	"errors"
	"time"
)

type Status string

const (
	StatusQuoteTodo     Status = "quote_todo"
	StatusPartsToOrder  Status = "parts_to_order"
	StatusToRepair      Status = "to_repair"
	StatusWaitingParts  Status = "waiting_parts"
	StatusInRepair      Status = "in_repair"
	StatusDrying        Status = "drying"
	StatusReadyToReturn Status = "ready_to_return"
	StatusDelivered     Status = "delivered"
	StatusArchived      Status = "archived"
	StatusCancelled     Status = "cancelled"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{
	StatusQuoteTodo, StatusPartsToOrder, StatusToRepair, StatusWaitingParts, StatusInRepair,
	StatusDrying, StatusReadyToReturn, StatusDelivered, StatusArchived, StatusCancelled,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// NeedsReservedParts reports whether entering s requires every part reserved.
func (s Status) NeedsReservedParts() bool {
	return s == StatusToRepair || s == StatusReadyToReturn
}

// Closed reports whether the ticket has left the workshop.
func (s Status) Closed() bool {
	return s == StatusDelivered || s == StatusArchived || s == StatusCancelled
}

// Errors raised by the stock and invoice procedures.
var (
	ErrInsufficientStock = errors.New("repair: insufficient stock")
	ErrSerialUnavailable = errors.New("repair: serial unavailable")
	ErrAlreadyInvoiced   = errors.New("repair: already invoiced")
)

type Repair struct {
	ID                   int64
	Reference            string
	CustomerName         string
	CustomerPhone        string
	Device               string
	Description          string
	Status               Status
	InvoiceID            *int64
	DryingStartAt        *time.Time
	DryingEndAt          *time.Time
	DryingAcknowledgedAt *time.Time
	DryingNotifiedAt     *time.Time
	SignatureURL         *string
	CreatedBy            string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// CanArchive reports whether the ticket is invoiced or already delivered.
func (r Repair) CanArchive() bool {
	return r.InvoiceID != nil || r.Status == StatusDelivered
}

type Item struct {
	ID            int64
	RepairID      int64
	ProductID     int64
	StockID       *int64
	Quantity      int32
	Serial        *string
	Reserved      bool
	ReservationID *int64
}

type Photo struct {
	ID        int64
	RepairID  int64
	URL       string
	CreatedAt time.Time
}

// StockLevel is one stock holding a product.
type StockLevel struct {
	ProductID int64  `json:"product_id"`
	StockID   int64  `json:"stock_id"`
	StockName string `json:"stock_name"`
	Available int32  `json:"available"`
}

type Detail struct {
	Repair
	Items  []Item
	Photos []Photo
}

type CreateRepair struct {
	Reference     string
	CustomerName  string
	CustomerPhone string
	Device        string
	Description   string
	CreatedBy     string
}

type Reservation struct {
	RepairID  int64
	ProductID int64
	StockID   *int64
	Quantity  int32
	Serial    *string
}

// DigestRow is a non archived ticket summarized for the daily digest.
type DigestRow struct {
	ID           int64
	Reference    string
	CustomerName string
	Device       string
	Status       Status
}
