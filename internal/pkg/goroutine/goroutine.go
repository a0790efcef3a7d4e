// Package goroutine owns the background goroutines of the process.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"

	"go.uber.org/atomic"

	"github.com/shandysiswandi/shopdesk/internal/pkg/stacktrace"
)

// DefaultLimit is used when NewManager receives a non-positive limit.
const DefaultLimit = 64

// ErrLimitReached is recorded when Go is called while every slot is busy.
var ErrLimitReached = errors.New("goroutine: limit reached")

// Manager runs tasks with a concurrency limit, recovers their panics, and
// collects their errors for Wait.
type Manager struct {
	wg     sync.WaitGroup
	slots  chan struct{}
	closed atomic.Bool

	mu   sync.Mutex
	errs []error
}

func NewManager(limit int) *Manager {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Manager{slots: make(chan struct{}, limit)}
}

// Go starts f unless the manager is closed or full. It reports whether f was
// started.
func (m *Manager) Go(ctx context.Context, f func(ctx context.Context) error) bool {
	if m == nil {
		return false
	}
	if m.closed.Load() {
		slog.WarnContext(ctx, "goroutine manager is closed, task skipped")
		return false
	}

	select {
	case m.slots <- struct{}{}:
	default:
		slog.WarnContext(ctx, "goroutine limit reached, task skipped")
		m.record(ErrLimitReached)
		return false
	}

	m.wg.Go(func() {
		defer func() { <-m.slots }()
		defer m.recover(ctx)

		if err := f(ctx); err != nil && !errors.Is(err, context.Canceled) {
			m.record(err)
		}
	})

	return true
}

func (m *Manager) recover(ctx context.Context) {
	rvr := recover()
	if rvr == nil {
		return
	}

	stack := debug.Stack()
	if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
		slog.ErrorContext(ctx, "panic in goroutine", "panic", rvr, "stack", paths)
		return
	}
	slog.ErrorContext(ctx, "panic in goroutine", "panic", rvr, "stack", string(stack))
}

func (m *Manager) record(err error) {
	m.mu.Lock()
	m.errs = append(m.errs, err)
	m.mu.Unlock()
}

// Wait stops accepting tasks, waits for the running ones and returns their
// joined errors. Context cancellation is not reported as an error.
func (m *Manager) Wait() error {
	if m == nil {
		return nil
	}
	m.closed.Store(true)
	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	return errors.Join(m.errs...)
}
