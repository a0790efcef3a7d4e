package entity

import "time"

type EntryStatus string

const (
	EntryStatusTodo EntryStatus = "todo"
	EntryStatusSeen EntryStatus = "vu"
	EntryStatusDone EntryStatus = "fait"
)

type NotificationKind string

const (
	NotificationDue     NotificationKind = "due"
	NotificationOverdue NotificationKind = "overdue"
)

type Entry struct {
	ID          int64
	UserID      string
	Date        time.Time
	Time        *string
	Title       string
	Description string
	Status      EntryStatus
	Important   bool
	Archived    bool
	TemplateID  *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Open reports whether the entry can still raise notifications.
func (e Entry) Open() bool {
	return !e.Archived && e.Status != EntryStatusDone
}

type Template struct {
	ID          int64
	UserID      string
	Name        string
	Title       string
	Description string
	Time        *string
	Important   bool
	CreatedAt   time.Time
}

type EntryFilter struct {
	UserID          string
	From            *time.Time
	To              *time.Time
	IncludeArchived bool
}

type SaveEntry struct {
	ID          int64
	UserID      string
	Date        time.Time
	Time        *string
	Title       string
	Description string
	Status      EntryStatus
	Important   bool
	TemplateID  *int64
}
