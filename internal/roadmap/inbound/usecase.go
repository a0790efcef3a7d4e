package inbound

import (
	"context"

	"github.com/shandysiswandi/shopdesk/internal/roadmap/entity"
	"github.com/shandysiswandi/shopdesk/internal/roadmap/usecase"
)

type ucCron interface {
	RunNotifications(ctx context.Context) (*usecase.RunNotificationsOutput, error)
}

type uc interface {
	ucCron

	ListEntries(ctx context.Context, in usecase.ListEntriesInput) ([]entity.Entry, error)
	CreateEntry(ctx context.Context, in usecase.SaveEntryInput) (*entity.Entry, error)
	UpdateEntry(ctx context.Context, in usecase.SaveEntryInput) (*entity.Entry, error)
	UpdateEntryStatus(ctx context.Context, in usecase.UpdateEntryStatusInput) (*entity.Entry, error)
	ArchiveEntry(ctx context.Context, id int64) (*entity.Entry, error)

	ListTemplates(ctx context.Context) ([]entity.Template, error)
	CreateTemplate(ctx context.Context, in usecase.CreateTemplateInput) (*entity.Template, error)
	DeleteTemplate(ctx context.Context, id int64) error
	ApplyTemplate(ctx context.Context, in usecase.ApplyTemplateInput) (*entity.Entry, error)
}
