package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/shandysiswandi/shopdesk/internal/agenda/entity"
	"github.com/shandysiswandi/shopdesk/internal/pkg/config"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/jwt"
	"github.com/shandysiswandi/shopdesk/internal/pkg/validator"
	"github.com/shandysiswandi/shopdesk/internal/shared/notify"
)

const owner = "0190b7a4-0000-7000-8000-0000000000aa"

var now = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return now }

// memRepo keeps agenda rows in memory and counts mutations.
type memRepo struct {
	mu        sync.Mutex
	events    map[int64]*entity.Event
	reminders []*entity.Reminder
	seq       int64
	mutations int
	rpcErr    error
	markErr   map[int64]error
}

func newMemRepo() *memRepo {
	return &memRepo{events: map[int64]*entity.Event{}, markErr: map[int64]error{}}
}

func (m *memRepo) addEvent(e entity.Event) *entity.Event {
	m.seq++
	e.ID = m.seq
	if e.UserID == "" {
		e.UserID = owner
	}
	if e.Status == "" {
		e.Status = entity.EventStatusTodo
	}
	m.events[e.ID] = &e
	return &e
}

func (m *memRepo) addReminder(r entity.Reminder) *entity.Reminder {
	m.seq++
	r.ID = m.seq
	m.reminders = append(m.reminders, &r)
	return &r
}

func (m *memRepo) pending(eventID int64) []*entity.Reminder {
	var out []*entity.Reminder
	for _, r := range m.reminders {
		if r.EventID == eventID && !r.Delivered {
			out = append(out, r)
		}
	}
	return out
}

func (m *memRepo) ListEvents(_ context.Context, f entity.EventFilter) ([]entity.Event, error) {
	var out []entity.Event
	for _, e := range m.events {
		if e.UserID == f.UserID && (f.IncludeArchived || !e.Archived) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRepo) GetEvent(_ context.Context, userID string, id int64) (entity.Event, error) {
	e, ok := m.events[id]
	if !ok || e.UserID != userID {
		return entity.Event{}, goerror.ErrNotFound
	}
	return *e, nil
}

func (m *memRepo) CreateEvent(_ context.Context, in entity.SaveEvent) (entity.Event, error) {
	m.mutations++
	e := m.addEvent(entity.Event{UserID: in.UserID, Date: in.Date, Time: in.Time, Title: in.Title,
		Description: in.Description, Status: in.Status, Important: in.Important})
	return *e, nil
}

func (m *memRepo) UpdateEvent(_ context.Context, in entity.SaveEvent) (entity.Event, error) {
	e, ok := m.events[in.ID]
	if !ok || e.UserID != in.UserID {
		return entity.Event{}, goerror.ErrNotFound
	}
	m.mutations++
	e.Date, e.Time, e.Title, e.Description, e.Important = in.Date, in.Time, in.Title, in.Description, in.Important
	return *e, nil
}

func (m *memRepo) UpdateEventStatus(_ context.Context, userID string, id int64, status entity.EventStatus) (entity.Event, error) {
	e, ok := m.events[id]
	if !ok || e.UserID != userID {
		return entity.Event{}, goerror.ErrNotFound
	}
	m.mutations++
	e.Status = status
	return *e, nil
}

func (m *memRepo) ArchiveEvent(_ context.Context, userID string, id int64) (entity.Event, error) {
	e, ok := m.events[id]
	if !ok || e.UserID != userID {
		return entity.Event{}, goerror.ErrNotFound
	}
	m.mutations++
	e.Archived = true
	return *e, nil
}

func (m *memRepo) CreateReminders(_ context.Context, eventID int64) error {
	if m.rpcErr != nil {
		return m.rpcErr
	}
	m.addReminder(entity.Reminder{EventID: eventID, RunAt: now.Add(time.Hour), Type: entity.Reminder2h})
	return nil
}

func (m *memRepo) DeletePendingReminders(_ context.Context, eventID int64, types ...entity.ReminderType) (int64, error) {
	m.mutations++
	var kept []*entity.Reminder
	var n int64
	for _, r := range m.reminders {
		match := r.EventID == eventID && !r.Delivered
		if match && len(types) > 0 {
			match = false
			for _, t := range types {
				if r.Type == t {
					match = true
				}
			}
		}
		if match {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.reminders = kept
	return n, nil
}

func (m *memRepo) EnqueueReminder(_ context.Context, eventID int64, runAt time.Time, typ entity.ReminderType) error {
	m.mutations++
	m.addReminder(entity.Reminder{EventID: eventID, RunAt: runAt, Type: typ})
	return nil
}

func (m *memRepo) ListDueReminders(_ context.Context, at time.Time, limit int32) ([]entity.DueReminder, error) {
	var out []entity.DueReminder
	for _, r := range m.reminders {
		if !r.Delivered && !r.RunAt.After(at) {
			out = append(out, entity.DueReminder{Reminder: *r, Event: *m.events[r.EventID]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RunAt.Before(out[j].RunAt) })
	if len(out) > int(limit) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) MarkReminderDelivered(_ context.Context, id int64, attempted bool) error {
	if err := m.markErr[id]; err != nil {
		return err
	}
	for _, r := range m.reminders {
		if r.ID == id {
			r.Delivered = true
			if attempted {
				r.Attempt++
			}
		}
	}
	return nil
}

type fakeNotifier struct {
	sent []notify.Notification
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, n notify.Notification) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.sent = append(f.sent, n)
	return int64(len(f.sent)), nil
}

func newTestUsecase(t *testing.T, repo *memRepo, n *fakeNotifier, yaml string) *Usecase {
	t.Helper()
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	if err != nil {
		t.Fatal(err)
	}
	return New(Dependency{
		RepoDB:     repo,
		Notifier:   n,
		Config:     cfg,
		Clock:      fixedClock{},
		Validator:  v,
		Instrument: instrument.NewNoop(),
	})
}

func authCtx() context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{RegisteredClaims: gojwt.RegisteredClaims{Subject: owner}})
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *goerror.Error, got %T (%v)", err, err)
	}
	return gerr.StatusCode()
}

func requireStatus(t *testing.T, err error, want int) {
	t.Helper()
	if got := statusOf(t, err); got != want {
		t.Fatalf("status = %d, want %d (%v)", got, want, err)
	}
}
