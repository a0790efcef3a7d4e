package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/roadmap/entity"
)

type ListEntriesInput struct {
	From            string `validate:"omitempty,datetime=2006-01-02"`
	To              string `validate:"omitempty,datetime=2006-01-02"`
	IncludeArchived bool
}

func (s *Usecase) ListEntries(ctx context.Context, in ListEntriesInput) ([]entity.Entry, error) {
	ctx, span := s.startSpan(ctx, "ListEntries")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	from, _ := parseDate(in.From)
	to, _ := parseDate(in.To)
	items, err := s.repoDB.ListEntries(ctx, entity.EntryFilter{
		UserID:          clm.UserID(),
		From:            from,
		To:              to,
		IncludeArchived: in.IncludeArchived,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list roadmap entries", "user_id", clm.UserID(), "error", err)
		return nil, goerror.NewServer(err)
	}

	return items, nil
}

type SaveEntryInput struct {
	ID          int64
	Date        string `validate:"required,datetime=2006-01-02"`
	Time        string `validate:"omitempty,datetime=15:04"`
	Title       string `validate:"required,notblank,max=200"`
	Description string `validate:"max=4000"`
	Important   bool
}

func (s *Usecase) CreateEntry(ctx context.Context, in SaveEntryInput) (*entity.Entry, error) {
	ctx, span := s.startSpan(ctx, "CreateEntry")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	date, _ := parseDate(in.Date)
	e, err := s.repoDB.CreateEntry(ctx, entity.SaveEntry{
		UserID:      clm.UserID(),
		Date:        *date,
		Time:        optional(in.Time),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      entity.EntryStatusTodo,
		Important:   in.Important,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create roadmap entry", "user_id", clm.UserID(), "error", err)
		return nil, goerror.NewServer(err)
	}

	return &e, nil
}

func (s *Usecase) UpdateEntry(ctx context.Context, in SaveEntryInput) (*entity.Entry, error) {
	ctx, span := s.startSpan(ctx, "UpdateEntry")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	date, _ := parseDate(in.Date)
	e, err := s.repoDB.UpdateEntry(ctx, entity.SaveEntry{
		ID:          in.ID,
		UserID:      clm.UserID(),
		Date:        *date,
		Time:        optional(in.Time),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Important:   in.Important,
	})
	return entryResult(ctx, "update roadmap entry", in.ID, e, err)
}

type UpdateEntryStatusInput struct {
	ID     int64  `validate:"required,gt=0"`
	Status string `validate:"required,oneof=todo vu fait"`
}

func (s *Usecase) UpdateEntryStatus(ctx context.Context, in UpdateEntryStatusInput) (*entity.Entry, error) {
	ctx, span := s.startSpan(ctx, "UpdateEntryStatus")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	e, err := s.repoDB.UpdateEntryStatus(ctx, clm.UserID(), in.ID, entity.EntryStatus(in.Status))
	return entryResult(ctx, "update roadmap entry status", in.ID, e, err)
}

func (s *Usecase) ArchiveEntry(ctx context.Context, id int64) (*entity.Entry, error) {
	ctx, span := s.startSpan(ctx, "ArchiveEntry")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	e, err := s.repoDB.ArchiveEntry(ctx, clm.UserID(), id)
	return entryResult(ctx, "archive roadmap entry", id, e, err)
}
