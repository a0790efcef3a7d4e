package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/shandysiswandi/shopdesk/internal/pkg/config"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/jwt"
	"github.com/shandysiswandi/shopdesk/internal/pkg/validator"
	"github.com/shandysiswandi/shopdesk/internal/roadmap/entity"
	"github.com/shandysiswandi/shopdesk/internal/shared/notify"
)

const owner = "0190b7a4-0000-7000-8000-0000000000bb"

var now = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return now }

type claimKey struct {
	entry int64
	kind  entity.NotificationKind
	day   string
}

type memRepo struct {
	entries   []*entity.Entry
	templates map[int64]*entity.Template
	claims    map[claimKey]bool
	seq       int64
	mutations int
	claimErr  error
}

func newMemRepo() *memRepo {
	return &memRepo{templates: map[int64]*entity.Template{}, claims: map[claimKey]bool{}}
}

func (m *memRepo) addEntry(e entity.Entry) *entity.Entry {
	m.seq++
	e.ID = m.seq
	if e.UserID == "" {
		e.UserID = owner
	}
	if e.Status == "" {
		e.Status = entity.EntryStatusTodo
	}
	m.entries = append(m.entries, &e)
	return &e
}

func (m *memRepo) find(userID string, id int64) *entity.Entry {
	for _, e := range m.entries {
		if e.ID == id && e.UserID == userID {
			return e
		}
	}
	return nil
}

func (m *memRepo) ListEntries(_ context.Context, f entity.EntryFilter) ([]entity.Entry, error) {
	var out []entity.Entry
	for _, e := range m.entries {
		if e.UserID == f.UserID && (f.IncludeArchived || !e.Archived) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memRepo) CreateEntry(_ context.Context, in entity.SaveEntry) (entity.Entry, error) {
	m.mutations++
	e := m.addEntry(entity.Entry{UserID: in.UserID, Date: in.Date, Time: in.Time, Title: in.Title,
		Description: in.Description, Status: in.Status, Important: in.Important, TemplateID: in.TemplateID})
	return *e, nil
}

func (m *memRepo) UpdateEntry(_ context.Context, in entity.SaveEntry) (entity.Entry, error) {
	e := m.find(in.UserID, in.ID)
	if e == nil {
		return entity.Entry{}, goerror.ErrNotFound
	}
	m.mutations++
	e.Date, e.Time, e.Title, e.Description, e.Important = in.Date, in.Time, in.Title, in.Description, in.Important
	return *e, nil
}

func (m *memRepo) UpdateEntryStatus(_ context.Context, userID string, id int64, status entity.EntryStatus) (entity.Entry, error) {
	e := m.find(userID, id)
	if e == nil {
		return entity.Entry{}, goerror.ErrNotFound
	}
	m.mutations++
	e.Status = status
	return *e, nil
}

func (m *memRepo) ArchiveEntry(_ context.Context, userID string, id int64) (entity.Entry, error) {
	e := m.find(userID, id)
	if e == nil {
		return entity.Entry{}, goerror.ErrNotFound
	}
	m.mutations++
	e.Archived = true
	return *e, nil
}

func (m *memRepo) ListOpenEntriesUntil(_ context.Context, day time.Time) ([]entity.Entry, error) {
	var out []entity.Entry
	for _, e := range m.entries {
		if e.Open() && !e.Date.After(day) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memRepo) ListTemplates(_ context.Context, userID string) ([]entity.Template, error) {
	var out []entity.Template
	for _, t := range m.templates {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memRepo) GetTemplate(_ context.Context, userID string, id int64) (entity.Template, error) {
	t, ok := m.templates[id]
	if !ok || t.UserID != userID {
		return entity.Template{}, goerror.ErrNotFound
	}
	return *t, nil
}

func (m *memRepo) CreateTemplate(_ context.Context, in entity.Template) (entity.Template, error) {
	m.mutations++
	m.seq++
	in.ID = m.seq
	m.templates[in.ID] = &in
	return in, nil
}

func (m *memRepo) DeleteTemplate(_ context.Context, userID string, id int64) error {
	t, ok := m.templates[id]
	if !ok || t.UserID != userID {
		return goerror.ErrNotFound
	}
	m.mutations++
	delete(m.templates, id)
	return nil
}

func (m *memRepo) RecordNotification(_ context.Context, entryID int64, kind entity.NotificationKind, day time.Time) (bool, error) {
	if m.claimErr != nil {
		return false, m.claimErr
	}
	k := claimKey{entryID, kind, day.Format(dateLayout)}
	if m.claims[k] {
		return false, nil
	}
	m.claims[k] = true
	return true, nil
}

func (m *memRepo) ForgetNotification(_ context.Context, entryID int64, kind entity.NotificationKind, day time.Time) error {
	delete(m.claims, claimKey{entryID, kind, day.Format(dateLayout)})
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

func requireStatus(t *testing.T, err error, want int) {
	t.Helper()
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *goerror.Error, got %T (%v)", err, err)
	}
	if got := gerr.StatusCode(); got != want {
		t.Fatalf("status = %d, want %d (%v)", got, want, err)
	}
}

func day(s string) time.Time {
	t, _ := time.Parse(dateLayout, s)
	return t
}

func hhmm(s string) *string { return &s }
