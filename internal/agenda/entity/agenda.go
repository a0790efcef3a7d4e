package entity

import "time"

type EventStatus string

const (
	EventStatusTodo       EventStatus = "a_faire"
	EventStatusInProgress EventStatus = "en_cours"
	EventStatusDone       EventStatus = "fait"
	EventStatusSeen       EventStatus = "vu"
)

type ReminderType string

const (
	Reminder24h     ReminderType = "24h"
	Reminder2h      ReminderType = "2h"
	ReminderNow     ReminderType = "now"
	ReminderRetry15 ReminderType = "retry_15m"
)

type Event struct {
	ID          int64
	UserID      string
	Date        time.Time
	Time        *string
	Title       string
	Description string
	Status      EventStatus
	Important   bool
	Archived    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Closed reports whether reminders for the event must no longer fire.
func (e Event) Closed() bool {
	return e.Status == EventStatusDone || e.Archived
}

type Reminder struct {
	ID        int64
	EventID   int64
	RunAt     time.Time
	Type      ReminderType
	Delivered bool
	Attempt   int32
}

// DueReminder is an undelivered reminder joined with its event.
type DueReminder struct {
	Reminder
	Event Event
}

type EventFilter struct {
	UserID          string
	From            *time.Time
	To              *time.Time
	IncludeArchived bool
}

type SaveEvent struct {
	ID          int64
	UserID      string
	Date        time.Time
	Time        *string
	Title       string
	Description string
	Status      EventStatus
	Important   bool
}
