package inbound

import (
	"context"

	"github.com/shandysiswandi/shopdesk/internal/agenda/entity"
	"github.com/shandysiswandi/shopdesk/internal/agenda/usecase"
)

type ucCron interface {
	RunReminders(ctx context.Context) (*usecase.RunRemindersOutput, error)
}

type uc interface {
	ucCron

	ListEvents(ctx context.Context, in usecase.ListEventsInput) ([]entity.Event, error)
	CreateEvent(ctx context.Context, in usecase.CreateEventInput) (*entity.Event, error)
	UpdateEvent(ctx context.Context, in usecase.UpdateEventInput) (*entity.Event, error)
	UpdateEventStatus(ctx context.Context, in usecase.UpdateEventStatusInput) (*entity.Event, error)
	ArchiveEvent(ctx context.Context, in usecase.ArchiveEventInput) (*entity.Event, error)
	ReminderAction(ctx context.Context, in usecase.ReminderActionInput) (*usecase.ReminderActionOutput, error)
}
