package inbound

import (
	"time"

	"github.com/shandysiswandi/shopdesk/internal/pkg/valueobject"
)

type NotificationResponse struct {
	ID        int64               `json:"id"`
	UserID    *string             `json:"user_id"`
	Type      string              `json:"type"`
	Title     string              `json:"title"`
	Message   string              `json:"message"`
	Read      bool                `json:"read"`
	Metadata  valueobject.JSONMap `json:"metadata" swaggertype:"object"`
	CreatedAt time.Time           `json:"created_at"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
