package inbound

import (
	"time"

	"github.com/shandysiswandi/shopdesk/internal/repair/entity"
)

type CreateRepairRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Device        string `json:"device"`
	Description   string `json:"description"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type AttachPartRequest struct {
	ProductID int64  `json:"product_id"`
	StockID   *int64 `json:"stock_id"`
	Quantity  int32  `json:"quantity"`
	Serial    string `json:"serial"`
}

type StartDryingRequest struct {
	Minutes int `json:"minutes"`
}

type RepairResponse struct {
	ID                   int64      `json:"id"`
	Reference            string     `json:"reference"`
	CustomerName         string     `json:"customer_name"`
	CustomerPhone        string     `json:"customer_phone"`
	Device               string     `json:"device"`
	Description          string     `json:"description"`
	Status               string     `json:"status"`
	InvoiceID            *int64     `json:"invoice_id"`
	DryingStartAt        *time.Time `json:"drying_start_at"`
	DryingEndAt          *time.Time `json:"drying_end_at"`
	DryingAcknowledgedAt *time.Time `json:"drying_acknowledged_at"`
	SignatureURL         *string    `json:"signature_url"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

type ItemResponse struct {
	ID            int64   `json:"id"`
	ProductID     int64   `json:"product_id"`
	StockID       *int64  `json:"stock_id"`
	Quantity      int32   `json:"quantity"`
	Serial        *string `json:"serial"`
	Reserved      bool    `json:"reserved"`
	ReservationID *int64  `json:"reservation_id"`
}

type PhotoResponse struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

type DetailResponse struct {
	RepairResponse
	Items  []ItemResponse  `json:"items"`
	Photos []PhotoResponse `json:"photos"`
}

type ReleasePartsResponse struct {
	Released int64 `json:"released"`
}

func toRepairResponse(r entity.Repair) RepairResponse {
	return RepairResponse{
		ID:                   r.ID,
		Reference:            r.Reference,
		CustomerName:         r.CustomerName,
		CustomerPhone:        r.CustomerPhone,
		Device:               r.Device,
		Description:          r.Description,
		Status:               string(r.Status),
		InvoiceID:            r.InvoiceID,
		DryingStartAt:        r.DryingStartAt,
		DryingEndAt:          r.DryingEndAt,
		DryingAcknowledgedAt: r.DryingAcknowledgedAt,
		SignatureURL:         r.SignatureURL,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

func toItemResponse(it entity.Item) ItemResponse {
	return ItemResponse{
		ID:            it.ID,
		ProductID:     it.ProductID,
		StockID:       it.StockID,
		Quantity:      it.Quantity,
		Serial:        it.Serial,
		Reserved:      it.Reserved,
		ReservationID: it.ReservationID,
	}
}

func toPhotoResponse(p entity.Photo) PhotoResponse {
	return PhotoResponse{ID: p.ID, URL: p.URL, CreatedAt: p.CreatedAt}
}
