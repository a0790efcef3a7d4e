package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/shopdesk/internal/pkg/gate"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/storage"
	"github.com/shandysiswandi/shopdesk/internal/repair/entity"
)

const (
	uploadSignature = "signature"
	uploadPhoto     = "photo"
)

type UploadInput struct {
	RepairID    int64 `validate:"required,gt=0"`
	File        io.Reader
	Size        int64
	ContentType string `validate:"required,startswith=image/"`
}

func (s *Usecase) UploadSignature(ctx context.Context, in UploadInput) (*entity.Repair, error) {
	ctx, span := s.startSpan(ctx, "UploadSignature")
	defer span.End()

	url, key, err := s.upload(ctx, uploadSignature, in)
	if err != nil {
		return nil, err
	}

	r, err := s.repoDB.SetSignature(ctx, in.RepairID, url)
	if err != nil {
		s.discard(ctx, key)
	}
	return repairResult(ctx, "set repair signature", in.RepairID, r, err)
}

func (s *Usecase) UploadPhoto(ctx context.Context, in UploadInput) (*entity.Photo, error) {
	ctx, span := s.startSpan(ctx, "UploadPhoto")
	defer span.End()

	url, key, err := s.upload(ctx, uploadPhoto, in)
	if err != nil {
		return nil, err
	}

	p, err := s.repoDB.AddPhoto(ctx, in.RepairID, url)
	if err != nil {
		s.discard(ctx, key)
		slog.ErrorContext(ctx, "failed to repo add repair photo", "repair_id", in.RepairID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &p, nil
}

// upload stores the file under repairs/<id>/<kind>/<uuid> and returns its
// public URL and key.
func (s *Usecase) upload(ctx context.Context, kind string, in UploadInput) (string, string, error) {
	if _, err := s.gate.Authorize(ctx, gateObject, gate.ActWrite); err != nil {
		return "", "", err
	}

	in.ContentType = strings.ToLower(strings.TrimSpace(in.ContentType))
	if err := s.validator.Validate(in); err != nil {
		return "", "", goerror.NewInvalidInput(err)
	}
	if in.File == nil {
		return "", "", goerror.NewInvalidInput(nil, "file", "is required")
	}

	if _, err := s.getRepair(ctx, in.RepairID); err != nil {
		return "", "", err
	}

	size := in.Size
	if size <= 0 {
		size = -1
	}

	key := fmt.Sprintf("repairs/%d/%s/%s", in.RepairID, kind, s.uuid.Generate())
	_, err := s.storage.PutObject(ctx, s.cfg.GetString("storage.bucket"), key, in.File, storage.PutOptions{
		Size:        size,
		ContentType: in.ContentType,
		Metadata:    map[string]string{"repair-id": fmt.Sprint(in.RepairID), "kind": kind},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to upload repair file", "repair_id", in.RepairID, "kind", kind, "error", err)
		return "", "", goerror.NewServer(err)
	}

	return storage.PublicURL(s.cfg.GetString("storage.public_base_url"), key), key, nil
}

func (s *Usecase) discard(ctx context.Context, key string) {
	if err := s.storage.DeleteObject(context.WithoutCancel(ctx), s.cfg.GetString("storage.bucket"), key); err != nil {
		slog.WarnContext(ctx, "failed to delete orphan upload", "key", key, "error", err)
	}
}
