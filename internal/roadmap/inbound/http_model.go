package inbound

import (
	"time"

	"github.com/shandysiswandi/shopdesk/internal/roadmap/entity"
)

type EntryRequest struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Important   bool   `json:"important"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type TemplateRequest struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Time        string `json:"time"`
	Important   bool   `json:"important"`
}

type ApplyTemplateRequest struct {
	Date string `json:"date"`
}

type EntryResponse struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	Time        *string   `json:"time"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Important   bool      `json:"important"`
	Archived    bool      `json:"archived"`
	TemplateID  *int64    `json:"template_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TemplateResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Time        *string   `json:"time"`
	Important   bool      `json:"important"`
	CreatedAt   time.Time `json:"created_at"`
}

func toEntryResponse(e entity.Entry) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		Date:        e.Date.Format("2006-01-02"),
		Time:        e.Time,
		Title:       e.Title,
		Description: e.Description,
		Status:      string(e.Status),
		Important:   e.Important,
		Archived:    e.Archived,
		TemplateID:  e.TemplateID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toTemplateResponse(t entity.Template) TemplateResponse {
	return TemplateResponse{
		ID:          t.ID,
		Name:        t.Name,
		Title:       t.Title,
		Description: t.Description,
		Time:        t.Time,
		Important:   t.Important,
		CreatedAt:   t.CreatedAt,
	}
}
