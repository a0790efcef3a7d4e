package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/marketplace/entity"
	"github.com/shandysiswandi/shopdesk/internal/pkg/config"
	"github.com/shandysiswandi/shopdesk/internal/pkg/crypt"
	"github.com/shandysiswandi/shopdesk/internal/pkg/gate"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/validator"
)

const admin = "0190b7a4-0000-7000-8000-0000000000ee"

var now = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return now }

type staticState struct{}

func (staticState) Generate() string { return "state-1" }

type fakeGate struct {
	allowed bool
	anon    bool
	acts    []string
}

func (g *fakeGate) Authorize(_ context.Context, _ string, act string) (gate.Caller, error) {
	g.acts = append(g.acts, act)
	if g.anon {
		return gate.Caller{}, goerror.Unauthenticated()
	}
	if !g.allowed {
		return gate.Caller{}, goerror.NewBusiness("Insufficient permissions", goerror.CodeForbidden)
	}
	return gate.Caller{UserID: admin, Role: gate.RoleAdminFull}, nil
}

type memRepo struct {
	accounts  map[int64]*entity.Account
	seq       int64
	mutations int
	refundErr error
	refunds   []entity.Refund
}

func newMemRepo() *memRepo {
	return &memRepo{accounts: map[int64]*entity.Account{}}
}

func (m *memRepo) add(a entity.Account) *entity.Account {
	m.seq++
	a.ID = m.seq
	if a.UserID == "" {
		a.UserID = admin
	}
	m.accounts[a.ID] = &a
	return &a
}

func (m *memRepo) ListAccounts(context.Context) ([]entity.Account, error) {
	out := make([]entity.Account, 0)
	for id := int64(1); id <= m.seq; id++ {
		if a, ok := m.accounts[id]; ok && a.Status != entity.AccountStatusPending {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memRepo) GetAccount(_ context.Context, id int64) (entity.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return entity.Account{}, goerror.ErrNotFound
	}
	return *a, nil
}

func (m *memRepo) CreatePending(_ context.Context, in entity.CreatePending) (entity.Account, error) {
	m.mutations++
	state := in.State
	return *m.add(entity.Account{UserID: in.UserID, Provider: in.Provider, Status: entity.AccountStatusPending,
		State: &state, Scope: in.Scope, CreatedAt: now}), nil
}

func (m *memRepo) TakePending(_ context.Context, state string, since time.Time) (entity.Account, error) {
	for _, a := range m.accounts {
		if a.Status == entity.AccountStatusPending && a.State != nil && *a.State == state && !a.CreatedAt.Before(since) {
			m.mutations++
			a.State = nil
			return *a, nil
		}
	}
	return entity.Account{}, goerror.ErrNotFound
}

func (m *memRepo) Activate(_ context.Context, in entity.Activate) (entity.Account, error) {
	m.mutations++
	a := m.accounts[in.ID]
	a.Status, a.Scope, a.RefreshTokenEnc, a.AccessExpiresAt = entity.AccountStatusActive, in.Scope, in.RefreshTokenEnc, in.AccessExpiresAt
	return *a, nil
}

func (m *memRepo) Rotate(_ context.Context, id int64, tokenEnc []byte, expiresAt *time.Time) (entity.Account, error) {
	a, ok := m.accounts[id]
	if !ok || a.Status != entity.AccountStatusActive {
		return entity.Account{}, goerror.ErrNotFound
	}
	m.mutations++
	if tokenEnc != nil {
		a.RefreshTokenEnc = tokenEnc
	}
	a.AccessExpiresAt = expiresAt
	return *a, nil
}

func (m *memRepo) Revoke(_ context.Context, id int64) (entity.Account, error) {
	a, ok := m.accounts[id]
	if !ok || a.Status == entity.AccountStatusPending {
		return entity.Account{}, goerror.ErrNotFound
	}
	m.mutations++
	a.Status, a.RefreshTokenEnc, a.AccessExpiresAt = entity.AccountStatusRevoked, nil, nil
	return *a, nil
}

func (m *memRepo) DeleteStalePending(_ context.Context, until time.Time) (int64, error) {
	var n int64
	for id, a := range m.accounts {
		if a.Status == entity.AccountStatusPending && a.CreatedAt.Before(until) {
			delete(m.accounts, id)
			n++
		}
	}
	return n, nil
}

func (m *memRepo) IngestRefund(_ context.Context, in entity.Refund) (int64, error) {
	if m.refundErr != nil {
		return 0, m.refundErr
	}
	m.refunds = append(m.refunds, in)
	return int64(len(m.refunds)), nil
}

// tokenServer answers the OAuth token endpoint. Code "good" and refresh
// token "rt-1" succeed, refresh token "dead" is an invalid grant.
func tokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")

		var body map[string]any
		switch {
		case r.Form.Get("grant_type") == "authorization_code" && r.Form.Get("code") == "good":
			body = map[string]any{"access_token": "at", "refresh_token": "rt-1", "expires_in": 3600,
				"token_type": "bearer", "scope": "orders refunds"}
		case r.Form.Get("grant_type") == "authorization_code" && r.Form.Get("code") == "norefresh":
			body = map[string]any{"access_token": "at", "expires_in": 3600, "token_type": "bearer"}
		case r.Form.Get("grant_type") == "refresh_token" && r.Form.Get("refresh_token") == "rt-1":
			body = map[string]any{"access_token": "at-2", "refresh_token": "rt-2", "expires_in": 3600, "token_type": "bearer"}
		default:
			w.WriteHeader(http.StatusBadRequest)
			body = map[string]any{"error": "invalid_grant"}
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

type fixture struct {
	repo  *memRepo
	gate  *fakeGate
	crypt *crypt.AESGCM
	uc    *Usecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := tokenServer(t)

	yaml := fmt.Sprintf(`
modules:
  marketplace:
    redirect_success: https://app.example/marketplace?connected=1
    redirect_failure: https://app.example/marketplace/error
    providers:
      amazon:
        client_id: cid
        client_secret: csecret
        auth_url: https://sellercentral.example/apps/authorize/consent
        token_url: %s/token
        redirect_url: https://api.example/api/v1/marketplace/oauth/callback
        scopes: [orders]
        extended_scopes: [orders, refunds]
`, srv.URL)
	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	if err != nil {
		t.Fatal(err)
	}
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatal(err)
	}
	c, err := crypt.NewAESGCM([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatal(err)
	}

	f := &fixture{repo: newMemRepo(), gate: &fakeGate{allowed: true}, crypt: c}
	f.uc = New(Dependency{
		RepoDB:     f.repo,
		Gate:       f.gate,
		Crypt:      c,
		State:      staticState{},
		Config:     cfg,
		Clock:      fixedClock{},
		Validator:  v,
		Instrument: instrument.NewNoop(),
	})
	return f
}

// active stores a connected account holding refreshToken.
func (f *fixture) active(t *testing.T, refreshToken string) *entity.Account {
	t.Helper()
	a := entity.Account{UserID: admin, Provider: "amazon", Status: entity.AccountStatusActive}
	enc, err := f.crypt.Encrypt([]byte(refreshToken), crypt.Scope{Owner: admin, Purpose: tokenPurpose})
	if err != nil {
		t.Fatal(err)
	}
	a.RefreshTokenEnc = enc
	return f.repo.add(a)
}

func (f *fixture) refreshToken(t *testing.T, id int64) string {
	t.Helper()
	plain, err := f.crypt.Decrypt(f.repo.accounts[id].RefreshTokenEnc, crypt.Scope{Owner: admin, Purpose: tokenPurpose})
	if err != nil {
		t.Fatal(err)
	}
	return string(plain)
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
