package inbound

import (
	"time"

	"github.com/shandysiswandi/shopdesk/internal/agenda/entity"
)

type EventRequest struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Important   bool   `json:"important"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type ReminderActionRequest struct {
	Action  string `json:"action"`
	Minutes int    `json:"minutes"`
}

type EventResponse struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	Time        *string   `json:"time"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Important   bool      `json:"important"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ReminderActionResponse struct {
	Event     EventResponse `json:"event"`
	Action    string        `json:"action"`
	NextRunAt *time.Time    `json:"next_run_at,omitempty"`
	Cancelled int64         `json:"cancelled_retries"`
}

func toEventResponse(e entity.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Date:        e.Date.Format("2006-01-02"),
		Time:        e.Time,
		Title:       e.Title,
		Description: e.Description,
		Status:      string(e.Status),
		Important:   e.Important,
		Archived:    e.Archived,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
