package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/shandysiswandi/shopdesk/internal/pkg/config"
	"github.com/shandysiswandi/shopdesk/internal/pkg/crypt"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/jwt"
	"github.com/shandysiswandi/shopdesk/internal/pkg/validator"
	"github.com/shandysiswandi/shopdesk/internal/telegram/entity"
)

const (
	owner  = "0190b7a4-0000-7000-8000-0000000000cc"
	other  = "0190b7a4-0000-7000-8000-0000000000dd"
	secret = "webhook-secret"
)

type staticSecret struct{}

func (staticSecret) Generate() string { return secret }

type memRepo struct {
	bots      map[int64]*entity.Bot
	seq       int64
	mutations int
}

func newMemRepo() *memRepo {
	return &memRepo{bots: map[int64]*entity.Bot{}}
}

func (m *memRepo) add(b entity.Bot) *entity.Bot {
	m.seq++
	b.ID = m.seq
	m.bots[b.ID] = &b
	return &b
}

func (m *memRepo) ListBots(_ context.Context, userID string) ([]entity.Bot, error) {
	out := make([]entity.Bot, 0)
	for id := int64(1); id <= m.seq; id++ {
		if b, ok := m.bots[id]; ok && b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memRepo) GetBot(_ context.Context, id int64) (entity.Bot, error) {
	b, ok := m.bots[id]
	if !ok {
		return entity.Bot{}, goerror.ErrNotFound
	}
	return *b, nil
}

func (m *memRepo) CreateBot(_ context.Context, in entity.CreateBot) (entity.Bot, error) {
	m.mutations++
	b := m.add(entity.Bot{UserID: in.UserID, Label: in.Label, TokenEnc: in.TokenEnc,
		WebhookSecret: in.WebhookSecret, Enabled: true, CreatedAt: time.Now()})
	return *b, nil
}

func (m *memRepo) DeleteBot(_ context.Context, userID string, id int64) error {
	b, ok := m.bots[id]
	if !ok || b.UserID != userID {
		return goerror.ErrNotFound
	}
	m.mutations++
	delete(m.bots, id)
	return nil
}

func (m *memRepo) SetChatID(_ context.Context, id, chatID int64) error {
	m.mutations++
	m.bots[id].ChatID = &chatID
	return nil
}

func (m *memRepo) ListDeliverableBots(_ context.Context, userID *string) ([]entity.Bot, error) {
	out := make([]entity.Bot, 0)
	for id := int64(1); id <= m.seq; id++ {
		b, ok := m.bots[id]
		if !ok || !b.Deliverable() {
			continue
		}
		if userID == nil || *userID == b.UserID {
			out = append(out, *b)
		}
	}
	return out, nil
}

type sent struct {
	token  string
	chatID int64
	text   string
}

type fakeBot struct {
	sent       []sent
	webhooks   map[string]string
	deleted    []string
	webhookErr error
	sendErr    map[string]error
}

func newFakeBot() *fakeBot {
	return &fakeBot{webhooks: map[string]string{}, sendErr: map[string]error{}}
}

func (f *fakeBot) SendMessage(_ context.Context, token string, chatID int64, text string) error {
	if err := f.sendErr[token]; err != nil {
		return err
	}
	f.sent = append(f.sent, sent{token: token, chatID: chatID, text: text})
	return nil
}

func (f *fakeBot) SetWebhook(_ context.Context, token, url, _ string) error {
	if f.webhookErr != nil {
		return f.webhookErr
	}
	f.webhooks[token] = url
	return nil
}

func (f *fakeBot) DeleteWebhook(_ context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	return nil
}

type fixture struct {
	repo  *memRepo
	bot   *fakeBot
	crypt *crypt.AESGCM
	uc    *Usecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  telegram:\n    webhook_base_url: https://shop.example/\n"))
	if err != nil {
		t.Fatal(err)
	}
	c, err := crypt.NewAESGCM([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatal(err)
	}

	f := &fixture{repo: newMemRepo(), bot: newFakeBot(), crypt: c}
	f.uc = New(Dependency{
		RepoDB:     f.repo,
		Bot:        f.bot,
		Crypt:      c,
		Secret:     staticSecret{},
		Config:     cfg,
		Validator:  v,
		Instrument: instrument.NewNoop(),
	})
	return f
}

// linked stores a bot sealed the way LinkBot seals it.
func (f *fixture) linked(t *testing.T, userID, token string, chatID *int64) *entity.Bot {
	t.Helper()
	enc, err := f.crypt.Encrypt([]byte(token), crypt.Scope{Owner: userID, Purpose: tokenPurpose})
	if err != nil {
		t.Fatal(err)
	}
	return f.repo.add(entity.Bot{UserID: userID, Label: "shop", TokenEnc: enc, WebhookSecret: secret, ChatID: chatID, Enabled: true})
}

func authCtx(userID string) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{RegisteredClaims: gojwt.RegisteredClaims{Subject: userID}})
}

func requireStatus(t *testing.T, err error, want int) *goerror.Error {
	t.Helper()
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *goerror.Error, got %T (%v)", err, err)
	}
	if got := gerr.StatusCode(); got != want {
		t.Fatalf("status = %d, want %d (%v)", got, want, err)
	}
	return gerr
}

func ptr[T any](v T) *T { return &v }
