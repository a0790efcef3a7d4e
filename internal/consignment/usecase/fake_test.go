package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/consignment/entity"
	"github.com/shandysiswandi/shopdesk/internal/pkg/config"
	"github.com/shandysiswandi/shopdesk/internal/pkg/gate"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/idempotency"
	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/validator"
	"github.com/shandysiswandi/shopdesk/internal/shared/notify"
	"github.com/shopspring/decimal"
)

const admin = "0190b7a4-0000-7000-8000-0000000000ff"

var now = time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return now }

type fakeGate struct {
	allowed bool
	anon    bool
}

func (g *fakeGate) Authorize(context.Context, string, string) (gate.Caller, error) {
	if g.anon {
		return gate.Caller{}, goerror.Unauthenticated()
	}
	if !g.allowed {
		return gate.Caller{}, goerror.NewBusiness("Insufficient permissions", goerror.CodeForbidden)
	}
	return gate.Caller{UserID: admin, Role: gate.RoleAdmin}, nil
}

type memRepo struct {
	moves     []entity.Move
	mutations int
	unpaid    []entity.UnpaidInvoice
	until     time.Time
	invoiced  int64
	paid      int64
}

func (m *memRepo) ListMoves(_ context.Context, f entity.MoveFilter) ([]entity.Move, error) {
	out := make([]entity.Move, 0)
	for _, mv := range m.moves {
		if (f.StockID == nil || *f.StockID == mv.StockID) && (f.ProductID == nil || *f.ProductID == mv.ProductID) {
			out = append(out, mv)
		}
	}
	return out, nil
}

func (m *memRepo) CountMoves(ctx context.Context, f entity.MoveFilter) (int64, error) {
	moves, _ := m.ListMoves(ctx, f)
	return int64(len(moves)), nil
}

func (m *memRepo) CreateMove(_ context.Context, in entity.CreateMove) (entity.Move, error) {
	m.mutations++
	by := in.CreatedBy
	mv := entity.Move{ID: int64(len(m.moves) + 1), StockID: in.StockID, ProductID: in.ProductID, Type: in.Type,
		Quantity: in.Quantity, Amount: in.Amount, InvoiceItemID: in.InvoiceItemID, Note: in.Note, CreatedBy: &by, CreatedAt: now}
	m.moves = append(m.moves, mv)
	return mv, nil
}

// SumMoves groups like the SQL aggregate does.
func (m *memRepo) SumMoves(_ context.Context, stockID *int64) ([]entity.MoveTotal, error) {
	type key struct {
		stock, product int64
		typ            entity.MoveType
	}
	idx := map[key]int{}
	var out []entity.MoveTotal
	for _, mv := range m.moves {
		if stockID != nil && *stockID != mv.StockID {
			continue
		}
		k := key{mv.StockID, mv.ProductID, mv.Type}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, entity.MoveTotal{StockID: mv.StockID, ProductID: mv.ProductID, Type: mv.Type,
				Quantity: decimal.Zero, Amount: decimal.Zero})
		}
		out[i].Quantity = out[i].Quantity.Add(mv.Quantity)
		out[i].Amount = out[i].Amount.Add(mv.Amount)
	}
	return out, nil
}

func (m *memRepo) ListUnpaidInvoices(_ context.Context, until time.Time) ([]entity.UnpaidInvoice, error) {
	m.until = until
	return m.unpaid, nil
}

func (m *memRepo) InsertMissingInvoiceMoves(context.Context) (int64, error) { return m.invoiced, nil }
func (m *memRepo) InsertMissingPaymentMoves(context.Context) (int64, error) { return m.paid, nil }

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

type fixture struct {
	repo     *memRepo
	gate     *fakeGate
	notifier *fakeNotifier
	idem     *memIdempotency
	uc       *Usecase
}

func newFixture(t *testing.T, yaml string) *fixture {
	t.Helper()
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	if err != nil {
		t.Fatal(err)
	}

	f := &fixture{repo: &memRepo{}, gate: &fakeGate{allowed: true}, notifier: &fakeNotifier{}, idem: &memIdempotency{}}
	f.uc = New(Dependency{
		RepoDB:      f.repo,
		Gate:        f.gate,
		Notifier:    f.notifier,
		Idempotency: f.idem,
		Config:      cfg,
		Clock:       fixedClock{},
		Validator:   v,
		Instrument:  instrument.NewNoop(),
	})
	return f
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

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }
