package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
)

func errNotificationNotFound() error {
	return goerror.NewBusiness("notification not found", goerror.CodeNotFound)
}

type MarkReadInput struct {
	ID int64 `validate:"required,gt=0"`
}

// MarkRead flags one visible notification as read. Global rows carry a
// single read flag, so reading one marks it read for every user.
func (s *Usecase) MarkRead(ctx context.Context, in MarkReadInput) error {
	ctx, span := s.startSpan(ctx, "MarkRead")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	updated, err := s.repoDB.MarkNotificationRead(ctx, clm.UserID(), in.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark notification read", "user_id", clm.UserID(), "notification_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !updated {
		return errNotificationNotFound()
	}

	return nil
}

// MarkAllRead flags every unread row visible to the caller, global ones
// included, and returns how many changed.
func (s *Usecase) MarkAllRead(ctx context.Context) (int64, error) {
	ctx, span := s.startSpan(ctx, "MarkAllRead")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return 0, err
	}

	n, err := s.repoDB.MarkNotificationsReadAll(ctx, clm.UserID())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark all notifications read", "user_id", clm.UserID(), "error", err)
		return 0, goerror.NewServer(err)
	}

	slog.DebugContext(ctx, "notifications marked read", "user_id", clm.UserID(), "count", n)
	return n, nil
}

type DeleteInput struct {
	ID int64 `validate:"required,gt=0"`
}

// Delete soft deletes a notification addressed to the caller. Global rows
// are shared and cannot be deleted by a single user; they answer not found.
func (s *Usecase) Delete(ctx context.Context, in DeleteInput) error {
	ctx, span := s.startSpan(ctx, "Delete")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	deleted, err := s.repoDB.SoftDeleteNotification(ctx, clm.UserID(), in.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo soft delete notification", "user_id", clm.UserID(), "notification_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !deleted {
		return errNotificationNotFound()
	}

	return nil
}
