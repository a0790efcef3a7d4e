// Package scheduler runs periodic jobs on cron expressions.
//
// A job never overlaps with itself: a tick that fires while the previous run
// is still going is skipped and logged.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/atomic"

	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/stacktrace"
	"github.com/shandysiswandi/shopdesk/internal/pkg/uid"
)

// ErrDuplicateJob is returned when a job name is registered twice.
var ErrDuplicateJob = errors.New("scheduler: duplicate job name")

// Func is the work of a job.
type Func func(ctx context.Context) error

type job struct {
	name    string
	fn      Func
	timeout time.Duration
	running atomic.Bool
	runs    atomic.Int64
}

type Scheduler struct {
	cron *cron.Cron
	uuid uid.StringID

	mu   sync.Mutex
	jobs map[string]*job
	ctx  context.Context
	stop context.CancelFunc
}

// New creates a scheduler evaluating specs in loc. Specs use the standard
// five fields plus the @every and @daily descriptors.
func New(loc *time.Location, uuid uid.StringID) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	ctx, stop := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		uuid: uuid,
		jobs: map[string]*job{},
		ctx:  ctx,
		stop: stop,
	}
}

// Add registers fn under name. A zero timeout lets a run last until Stop.
func (s *Scheduler) Add(name, spec string, timeout time.Duration, fn Func) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}

	j := &job{name: name, fn: fn, timeout: timeout}
	if _, err := s.cron.AddFunc(spec, func() { s.run(j) }); err != nil {
		return fmt.Errorf("scheduler: job %s: %w", name, err)
	}
	s.jobs[name] = j

	return nil
}

func (s *Scheduler) run(j *job) {
	ctx := instrument.SetCorrelationID(s.ctx, s.uuid.Generate())
	if !j.running.CompareAndSwap(false, true) {
		slog.WarnContext(ctx, "scheduler: previous run still in progress, tick skipped", "job", j.name)
		return
	}
	defer j.running.Store(false)

	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if rvr := recover(); rvr != nil {
			slog.ErrorContext(ctx, "scheduler: job panicked", "job", j.name, "panic", rvr,
				"stack", stacktrace.InternalPaths(debug.Stack()))
		}
	}()

	j.runs.Inc()
	if err := j.fn(ctx); err != nil {
		slog.ErrorContext(ctx, "scheduler: job failed", "job", j.name, "duration", time.Since(start).String(), "error", err)
		return
	}
	slog.InfoContext(ctx, "scheduler: job done", "job", j.name, "duration", time.Since(start).String())
}

// Start begins firing jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops new ticks, cancels running jobs and waits for them or ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.stop()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
