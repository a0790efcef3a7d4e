package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/shopdesk/internal/notification/entity"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
)

type ListInboxInput struct {
	Status string `validate:"omitempty,oneof=all unread read"`
	Limit  int32  `validate:"omitempty,gte=1,lte=100"`
	Offset int32  `validate:"omitempty,gte=0"`
}

type ListInboxOutput struct {
	Items  []entity.Notification
	Total  int64
	Limit  int32
	Offset int32
}

func (s *Usecase) ListInbox(ctx context.Context, in ListInboxInput) (*ListInboxOutput, error) {
	ctx, span := s.startSpan(ctx, "ListInbox")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if in.Status == "" {
		in.Status = string(entity.NotificationStatusAll)
	}
	if in.Limit == 0 {
		in.Limit = 20
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	status := entity.NotificationStatus(in.Status)
	items, err := s.repoDB.ListNotifications(ctx, clm.UserID(), status, in.Limit, in.Offset)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list notifications", "user_id", clm.UserID(), "error", err)
		return nil, goerror.NewServer(err)
	}

	total, err := s.repoDB.CountNotifications(ctx, clm.UserID(), status)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo count notifications", "user_id", clm.UserID(), "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ListInboxOutput{Items: items, Total: total, Limit: in.Limit, Offset: in.Offset}, nil
}

func (s *Usecase) CountUnread(ctx context.Context) (int64, error) {
	ctx, span := s.startSpan(ctx, "CountUnread")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return 0, err
	}

	count, err := s.repoDB.CountNotifications(ctx, clm.UserID(), entity.NotificationStatusUnread)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo count unread notifications", "user_id", clm.UserID(), "error", err)
		return 0, goerror.NewServer(err)
	}

	return count, nil
}
