package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/roadmap/entity"
)

func (s *Usecase) ListTemplates(ctx context.Context) ([]entity.Template, error) {
	ctx, span := s.startSpan(ctx, "ListTemplates")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.repoDB.ListTemplates(ctx, clm.UserID())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list roadmap templates", "user_id", clm.UserID(), "error", err)
		return nil, goerror.NewServer(err)
	}

	return items, nil
}

type CreateTemplateInput struct {
	Name        string `validate:"required,notblank,max=100"`
	Title       string `validate:"required,notblank,max=200"`
	Description string `validate:"max=4000"`
	Time        string `validate:"omitempty,datetime=15:04"`
	Important   bool
}

func (s *Usecase) CreateTemplate(ctx context.Context, in CreateTemplateInput) (*entity.Template, error) {
	ctx, span := s.startSpan(ctx, "CreateTemplate")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	t, err := s.repoDB.CreateTemplate(ctx, entity.Template{
		UserID:      clm.UserID(),
		Name:        strings.TrimSpace(in.Name),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Time:        optional(in.Time),
		Important:   in.Important,
	})
	if errors.Is(err, goerror.ErrConflict) {
		return nil, goerror.NewBusiness("template name already used", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create roadmap template", "user_id", clm.UserID(), "error", err)
		return nil, goerror.NewServer(err)
	}

	return &t, nil
}

func (s *Usecase) DeleteTemplate(ctx context.Context, id int64) error {
	ctx, span := s.startSpan(ctx, "DeleteTemplate")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return err
	}

	err = s.repoDB.DeleteTemplate(ctx, clm.UserID(), id)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("roadmap template not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete roadmap template", "template_id", id, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

type ApplyTemplateInput struct {
	TemplateID int64  `validate:"required,gt=0"`
	Date       string `validate:"required,datetime=2006-01-02"`
}

// ApplyTemplate creates an entry on Date from the template fields.
func (s *Usecase) ApplyTemplate(ctx context.Context, in ApplyTemplateInput) (*entity.Entry, error) {
	ctx, span := s.startSpan(ctx, "ApplyTemplate")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	tpl, err := s.repoDB.GetTemplate(ctx, clm.UserID(), in.TemplateID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("roadmap template not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get roadmap template", "template_id", in.TemplateID, "error", err)
		return nil, goerror.NewServer(err)
	}

	date, _ := parseDate(in.Date)
	e, err := s.repoDB.CreateEntry(ctx, entity.SaveEntry{
		UserID:      clm.UserID(),
		Date:        *date,
		Time:        tpl.Time,
		Title:       tpl.Title,
		Description: tpl.Description,
		Status:      entity.EntryStatusTodo,
		Important:   tpl.Important,
		TemplateID:  &tpl.ID,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create entry from template", "template_id", tpl.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &e, nil
}
