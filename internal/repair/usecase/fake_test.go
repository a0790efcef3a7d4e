package usecase

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/pkg/config"
	"github.com/shandysiswandi/shopdesk/internal/pkg/gate"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/idempotency"
	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/mail"
	"github.com/shandysiswandi/shopdesk/internal/pkg/storage"
	"github.com/shandysiswandi/shopdesk/internal/pkg/validator"
	"github.com/shandysiswandi/shopdesk/internal/repair/entity"
	"github.com/shandysiswandi/shopdesk/internal/shared/notify"
)

var now = time.Date(2026, 10, 14, 17, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return now }

type staticID struct{}

func (staticID) Generate() string { return "0190b7a4-0000-7000-8000-00000000abcd" }

// fakeGate allows every caller unless role is outside allowed.
type fakeGate struct {
	role    string
	allowed bool
	anon    bool
}

func allowGate() *fakeGate { return &fakeGate{role: gate.RoleMagasin, allowed: true} }

func (g *fakeGate) Authorize(context.Context, string, string) (gate.Caller, error) {
	if g.anon {
		return gate.Caller{}, goerror.Unauthenticated()
	}
	if !g.allowed {
		return gate.Caller{}, goerror.NewBusiness("Insufficient permissions", goerror.CodeForbidden)
	}
	return gate.Caller{UserID: "0190b7a4-0000-7000-8000-0000000000cc", Role: g.role}, nil
}

type memRepo struct {
	repairs      map[int64]*entity.Repair
	items        map[int64][]entity.Item
	photos       map[int64][]entity.Photo
	stock        map[int64][]entity.StockLevel
	reserveErr   error
	finalizeErr  error
	notes        map[int64]string
	digestSent   bool
	mutations    int
	notifiedIDs  []int64
	nextInvoice  int64
	openTickets  []entity.DigestRow
	listItemsErr error
}

func newMemRepo() *memRepo {
	return &memRepo{
		repairs:     map[int64]*entity.Repair{},
		items:       map[int64][]entity.Item{},
		photos:      map[int64][]entity.Photo{},
		stock:       map[int64][]entity.StockLevel{},
		notes:       map[int64]string{},
		nextInvoice: 500,
	}
}

func (m *memRepo) add(r entity.Repair) *entity.Repair {
	r.ID = int64(len(m.repairs) + 1)
	if r.Status == "" {
		r.Status = entity.StatusQuoteTodo
	}
	m.repairs[r.ID] = &r
	return &r
}

func (m *memRepo) get(id int64) (*entity.Repair, error) {
	r, ok := m.repairs[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return r, nil
}

func (m *memRepo) ListRepairs(_ context.Context, status *entity.Status, _, _ int32) ([]entity.Repair, error) {
	var out []entity.Repair
	for _, r := range m.repairs {
		if status == nil || r.Status == *status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memRepo) CountRepairs(ctx context.Context, status *entity.Status) (int64, error) {
	items, _ := m.ListRepairs(ctx, status, 0, 0)
	return int64(len(items)), nil
}

func (m *memRepo) GetRepair(_ context.Context, id int64) (entity.Repair, error) {
	r, err := m.get(id)
	if err != nil {
		return entity.Repair{}, err
	}
	return *r, nil
}

func (m *memRepo) CreateRepair(_ context.Context, in entity.CreateRepair) (entity.Repair, error) {
	m.mutations++
	r := m.add(entity.Repair{Reference: in.Reference, CustomerName: in.CustomerName, Device: in.Device, CreatedBy: in.CreatedBy})
	return *r, nil
}

func (m *memRepo) UpdateStatus(_ context.Context, id int64, status entity.Status) (entity.Repair, error) {
	r, err := m.get(id)
	if err != nil {
		return entity.Repair{}, err
	}
	m.mutations++
	r.Status = status
	return *r, nil
}

func (m *memRepo) NoteLatestHistory(_ context.Context, repairID int64, note string) error {
	m.notes[repairID] = note
	return nil
}

func (m *memRepo) ListItems(_ context.Context, repairID int64) ([]entity.Item, error) {
	if m.listItemsErr != nil {
		return nil, m.listItemsErr
	}
	return m.items[repairID], nil
}

func (m *memRepo) ReserveStock(_ context.Context, in entity.Reservation) (int64, error) {
	if m.reserveErr != nil {
		return 0, m.reserveErr
	}
	m.mutations++
	id := int64(100 + len(m.items[in.RepairID]))
	m.items[in.RepairID] = append(m.items[in.RepairID], entity.Item{ID: id, RepairID: in.RepairID,
		ProductID: in.ProductID, StockID: in.StockID, Quantity: in.Quantity, Serial: in.Serial, Reserved: true})
	return id, nil
}

func (m *memRepo) ReleaseReservations(_ context.Context, repairID int64, itemID *int64) (int64, error) {
	var n int64
	for i, it := range m.items[repairID] {
		if it.Reserved && (itemID == nil || it.ID == *itemID) {
			m.items[repairID][i].Reserved = false
			n++
		}
	}
	m.mutations++
	return n, nil
}

func (m *memRepo) ListAvailableStock(_ context.Context, productID int64) ([]entity.StockLevel, error) {
	return m.stock[productID], nil
}

func (m *memRepo) StartDrying(_ context.Context, id int64, start, end time.Time) (entity.Repair, error) {
	r, err := m.get(id)
	if err != nil {
		return entity.Repair{}, err
	}
	m.mutations++
	r.Status, r.DryingStartAt, r.DryingEndAt = entity.StatusDrying, &start, &end
	return *r, nil
}

func (m *memRepo) AcknowledgeDrying(_ context.Context, id int64, at time.Time) (entity.Repair, error) {
	r, err := m.get(id)
	if err != nil {
		return entity.Repair{}, err
	}
	m.mutations++
	r.DryingAcknowledgedAt = &at
	return *r, nil
}

func (m *memRepo) ListDryingDue(_ context.Context, at time.Time) ([]entity.Repair, error) {
	var out []entity.Repair
	for _, r := range m.repairs {
		if r.Status == entity.StatusDrying && r.DryingEndAt != nil && !r.DryingEndAt.After(at) &&
			r.DryingAcknowledgedAt == nil && r.DryingNotifiedAt == nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memRepo) MarkDryingNotified(_ context.Context, id int64, at time.Time) error {
	m.repairs[id].DryingNotifiedAt = &at
	m.notifiedIDs = append(m.notifiedIDs, id)
	return nil
}

func (m *memRepo) ListPhotos(_ context.Context, repairID int64) ([]entity.Photo, error) {
	return m.photos[repairID], nil
}

func (m *memRepo) AddPhoto(_ context.Context, repairID int64, url string) (entity.Photo, error) {
	m.mutations++
	p := entity.Photo{ID: int64(len(m.photos[repairID]) + 1), RepairID: repairID, URL: url}
	m.photos[repairID] = append(m.photos[repairID], p)
	return p, nil
}

func (m *memRepo) SetSignature(_ context.Context, id int64, url string) (entity.Repair, error) {
	r, err := m.get(id)
	if err != nil {
		return entity.Repair{}, err
	}
	m.mutations++
	r.SignatureURL = &url
	return *r, nil
}

func (m *memRepo) FinalizeInvoice(_ context.Context, repairID int64) (int64, error) {
	if m.finalizeErr != nil {
		return 0, m.finalizeErr
	}
	m.nextInvoice++
	return m.nextInvoice, nil
}

func (m *memRepo) SetInvoice(_ context.Context, id, invoiceID int64) (entity.Repair, error) {
	r, err := m.get(id)
	if err != nil {
		return entity.Repair{}, err
	}
	m.mutations++
	r.InvoiceID = &invoiceID
	return *r, nil
}

func (m *memRepo) ListOpenTickets(context.Context) ([]entity.DigestRow, error) {
	return m.openTickets, nil
}

func (m *memRepo) HasNotificationSince(context.Context, string, time.Time) (bool, error) {
	return m.digestSent, nil
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

type fakeStorage struct {
	objects map[string][]byte
	deleted []string
	putErr  error
}

func (f *fakeStorage) PutObject(_ context.Context, bucket, key string, r io.Reader, _ storage.PutOptions) (storage.ObjectInfo, error) {
	if f.putErr != nil {
		return storage.ObjectInfo{}, f.putErr
	}
	b, _ := io.ReadAll(r)
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = b
	return storage.ObjectInfo{Bucket: bucket, Key: key, Size: int64(len(b))}, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, _, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) Close() error { return nil }

type fakeMail struct {
	sent []mail.Message
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMail) Close() error { return nil }

// memIdempotency mimics the redis tracker in memory.
type memIdempotency struct {
	done map[string]bool
}

func (m *memIdempotency) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	if m.done == nil {
		m.done = map[string]bool{}
	}
	if m.done[key] {
		return idempotency.ErrCompleted
	}
	if err := fn(ctx); err != nil {
		return err
	}
	m.done[key] = true
	return nil
}

type deps struct {
	repo     *memRepo
	gate     *fakeGate
	notifier *fakeNotifier
	storage  *fakeStorage
	mail     *fakeMail
	idem     *memIdempotency
}

func newDeps() *deps {
	return &deps{
		repo:     newMemRepo(),
		gate:     allowGate(),
		notifier: &fakeNotifier{},
		storage:  &fakeStorage{},
		mail:     &fakeMail{},
		idem:     &memIdempotency{},
	}
}

func (d *deps) usecase(t *testing.T, yaml string) *Usecase {
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
		RepoDB:      d.repo,
		Gate:        d.gate,
		Storage:     d.storage,
		Notifier:    d.notifier,
		Mail:        d.mail,
		Idempotency: d.idem,
		Config:      cfg,
		Clock:       fixedClock{},
		UUID:        staticID{},
		Validator:   v,
		Instrument:  instrument.NewNoop(),
	})
}

func requireReason(t *testing.T, err error, status int, reason string) *goerror.Error {
	t.Helper()
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *goerror.Error, got %T (%v)", err, err)
	}
	if gerr.StatusCode() != status || (reason != "" && gerr.Reason() != reason) {
		t.Fatalf("got %d %s, want %d %s", gerr.StatusCode(), gerr.Reason(), status, reason)
	}
	return gerr
}

func ptr[T any](v T) *T { return &v }
