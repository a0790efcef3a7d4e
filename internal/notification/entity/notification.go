package entity

import (
	"time"

	"github.com/shandysiswandi/shopdesk/internal/pkg/valueobject"
)

// Notification is an inbox row. A nil UserID marks a global notification
// shown to every user.
type Notification struct {
	ID        int64
	UserID    *string
	Type      string
	Title     string
	Message   string
	Read      bool
	Metadata  valueobject.JSONMap
	CreatedAt time.Time
}

func (n Notification) Global() bool {
	return n.UserID == nil
}
