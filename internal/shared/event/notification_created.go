package event

const NotificationCreatedDestination string = "notification.created"
const NotificationCreatedConsumerStream string = "notification.stream"
const NotificationCreatedConsumerTelegram string = "telegram.deliver"

// NotificationCreatedMessage is published for every notification row. A nil
// UserID marks a global notification.
type NotificationCreatedMessage struct {
	ID        int64          `json:"id"`
	UserID    *string        `json:"user_id,omitempty"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt int64          `json:"created_at"`
}
