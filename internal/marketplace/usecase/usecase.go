package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/marketplace/entity"
	"github.com/shandysiswandi/shopdesk/internal/pkg/clock"
	"github.com/shandysiswandi/shopdesk/internal/pkg/config"
	"github.com/shandysiswandi/shopdesk/internal/pkg/crypt"
	"github.com/shandysiswandi/shopdesk/internal/pkg/gate"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/uid"
	"github.com/shandysiswandi/shopdesk/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
)

const (
	gateObject = "marketplace"

	tokenPurpose = "marketplace/refresh_token"

	// stateTTL bounds the time between Authorize and Callback.
	stateTTL = 15 * time.Minute
)

type repoDB interface {
	ListAccounts(ctx context.Context) ([]entity.Account, error)
	GetAccount(ctx context.Context, id int64) (entity.Account, error)
	CreatePending(ctx context.Context, in entity.CreatePending) (entity.Account, error)
	TakePending(ctx context.Context, state string, since time.Time) (entity.Account, error)
	Activate(ctx context.Context, in entity.Activate) (entity.Account, error)
	Rotate(ctx context.Context, id int64, tokenEnc []byte, expiresAt *time.Time) (entity.Account, error)
	Revoke(ctx context.Context, id int64) (entity.Account, error)
	DeleteStalePending(ctx context.Context, until time.Time) (int64, error)

	IngestRefund(ctx context.Context, in entity.Refund) (int64, error)
}

type Usecase struct {
	repoDB    repoDB
	gate      gate.Authorizer
	crypt     crypt.Encryptor
	state     uid.StringID
	cfg       config.Config
	clock     clock.Clocker
	validator validator.Validator
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Gate       gate.Authorizer
	Crypt      crypt.Encryptor
	State      uid.StringID
	Config     config.Config
	Clock      clock.Clocker
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		gate:      dep.Gate,
		crypt:     dep.Crypt,
		state:     dep.State,
		cfg:       dep.Config,
		clock:     dep.Clock,
		validator: dep.Validator,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("marketplace.usecase").Start(ctx, name)
}

// provider builds the OAuth client of a configured marketplace. Providers
// live under modules.marketplace.providers.<name>.
func (s *Usecase) provider(name string) (*oauth2.Config, bool) {
	key := "modules.marketplace.providers." + name + "."
	clientID := s.cfg.GetString(key + "client_id")
	if name == "" || clientID == "" {
		return nil, false
	}

	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: s.cfg.GetString(key + "client_secret"),
		Endpoint: oauth2.Endpoint{
			AuthURL:   s.cfg.GetString(key + "auth_url"),
			TokenURL:  s.cfg.GetString(key + "token_url"),
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: s.cfg.GetString(key + "redirect_url"),
		Scopes:      s.cfg.GetArray(key + "scopes"),
	}, true
}

func (s *Usecase) extendedScopes(name string) []string {
	return s.cfg.GetArray("modules.marketplace.providers." + name + ".extended_scopes")
}

func (s *Usecase) scope(a entity.Account) crypt.Scope {
	return crypt.Scope{Owner: a.UserID, Purpose: tokenPurpose}
}

func errAccountNotFound() error {
	return goerror.NewBusiness("Account not found", goerror.CodeNotFound)
}

func accountResult(ctx context.Context, op string, id int64, a entity.Account, err error) (*entity.Account, error) {
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errAccountNotFound()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo "+op, "account_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}
	return &a, nil
}

func expiry(t *oauth2.Token) *time.Time {
	if t.Expiry.IsZero() {
		return nil
	}
	e := t.Expiry.UTC()
	return &e
}
