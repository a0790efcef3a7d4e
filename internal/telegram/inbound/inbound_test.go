package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/jwt"
	"github.com/shandysiswandi/shopdesk/internal/pkg/router"
	"github.com/shandysiswandi/shopdesk/internal/pkg/uid"
	"github.com/shandysiswandi/shopdesk/internal/shared/event"
	"github.com/shandysiswandi/shopdesk/internal/telegram/entity"
	"github.com/shandysiswandi/shopdesk/internal/telegram/usecase"
)

type fakeUC struct {
	uc
	webhook   usecase.WebhookInput
	delivered []usecase.DeliverNotificationInput
}

func (f *fakeUC) Webhook(_ context.Context, in usecase.WebhookInput) error {
	f.webhook = in
	return nil
}

func (f *fakeUC) ListBots(context.Context) ([]entity.Bot, error) {
	chat := int64(5)
	return []entity.Bot{{ID: 1, Label: "shop", TokenEnc: []byte("sealed"), WebhookSecret: "s", ChatID: &chat, Enabled: true}}, nil
}

func (f *fakeUC) DeliverNotification(_ context.Context, in usecase.DeliverNotificationInput) error {
	f.delivered = append(f.delivered, in)
	return nil
}

type fakeJWT struct{}

func (fakeJWT) Generate(string, string) (string, error) { return "token", nil }
func (fakeJWT) Verify(string) (jwt.Claims, error)       { return jwt.Claims{Email: "a@b.c"}, nil }

type staticID struct{}

func (staticID) Generate() string { return "cid" }

func newTestRouter(f *fakeUC) *router.Router {
	r := router.NewRouter(router.Config{UUID: staticID{}, JWT: fakeJWT{}, Instrument: instrument.NewNoop()})
	RegisterHTTPEndpoint(r, f)
	return r
}

func TestWebhookEndpoint(t *testing.T) {
	// Arrange
	f := &fakeUC{}
	r := newTestRouter(f)
	body := `{"update_id":1,"message":{"message_id":3,"date":1700000000,"text":"/start","chat":{"id":77,"type":"private"}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/telegram/webhook/4", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerWebhookSecret, "abc")
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if f.webhook.BotID != 4 || f.webhook.Secret != "abc" {
		t.Fatalf("unexpected input %+v", f.webhook)
	}
	if f.webhook.Update.Message == nil || f.webhook.Update.Message.Chat.ID != 77 {
		t.Fatalf("unexpected update %+v", f.webhook.Update)
	}
}

func TestListBotsEndpoint_HidesSecrets(t *testing.T) {
	f := &fakeUC{}
	r := newTestRouter(f)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/telegram/bots", nil)
	req.Header.Set("Authorization", "Bearer x")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "sealed") || strings.Contains(body, "webhook_secret") {
		t.Fatalf("secret leaked: %s", body)
	}
	if !strings.Contains(body, `"linked":true`) {
		t.Fatalf("unexpected body %s", body)
	}
}

type fakeMessage struct {
	body []byte
}

func (m fakeMessage) ID() string           { return "1" }
func (m fakeMessage) Body() []byte         { return m.body }
func (m fakeMessage) Header(string) string { return "" }

func TestMQHandler_NotificationCreated(t *testing.T) {
	t.Run("global event", func(t *testing.T) {
		f := &fakeUC{}
		h := &MQHandler{uc: f, uuid: uid.NewUUID(), ins: instrument.NewNoop()}
		body, _ := json.Marshal(event.NotificationCreatedMessage{ID: 8, Type: "repair_daily_digest", Title: "Digest"})

		if err := h.NotificationCreated(context.Background(), fakeMessage{body: body}); err != nil {
			t.Fatal(err)
		}
		if len(f.delivered) != 1 || f.delivered[0].ID != 8 || f.delivered[0].UserID != nil {
			t.Fatalf("delivered = %+v", f.delivered)
		}
	})

	t.Run("malformed body is dropped", func(t *testing.T) {
		f := &fakeUC{}
		h := &MQHandler{uc: f, uuid: uid.NewUUID(), ins: instrument.NewNoop()}

		if err := h.NotificationCreated(context.Background(), fakeMessage{body: []byte("nope")}); err != nil {
			t.Fatal(err)
		}
		if len(f.delivered) != 0 {
			t.Fatal("nothing must be delivered")
		}
	})
}
