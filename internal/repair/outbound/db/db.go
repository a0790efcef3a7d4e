package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/repair/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type DB struct {
	conn conn
	ins  instrument.Instrumentation
}

func NewDB(conn conn, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return goerror.ErrConflict
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("repair.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) &&
		!errors.Is(err, entity.ErrInsufficientStock) && !errors.Is(err, entity.ErrSerialUnavailable) &&
		!errors.Is(err, entity.ErrAlreadyInvoiced) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// mapRPCError turns stored procedure failures into domain errors by message.
func (s *DB) mapRPCError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return s.mapError(err)
	}

	msg := strings.ToLower(pgErr.Message)
	switch {
	case strings.Contains(msg, "insufficient stock"):
		return fmt.Errorf("%w: %s", entity.ErrInsufficientStock, pgErr.Message)
	case strings.Contains(msg, "serial") && strings.Contains(msg, "unavailable"):
		return fmt.Errorf("%w: %s", entity.ErrSerialUnavailable, pgErr.Message)
	case strings.Contains(msg, "already invoiced"):
		return fmt.Errorf("%w: %s", entity.ErrAlreadyInvoiced, pgErr.Message)
	case strings.Contains(msg, "not found"):
		return goerror.ErrNotFound
	}

	return s.mapError(err)
}
