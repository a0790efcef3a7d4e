package inbound

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/jwt"
	"github.com/shandysiswandi/shopdesk/internal/pkg/router"
	"github.com/shandysiswandi/shopdesk/internal/roadmap/usecase"
)

type fakeUC struct {
	uc
	runs    int
	deleted int64
	apply   usecase.ApplyTemplateInput
}

func (f *fakeUC) RunNotifications(context.Context) (*usecase.RunNotificationsOutput, error) {
	f.runs++
	return &usecase.RunNotificationsOutput{}, nil
}

func (f *fakeUC) DeleteTemplate(_ context.Context, id int64) error {
	f.deleted = id
	return nil
}

type fakeJWT struct{}

func (fakeJWT) Generate(string, string) (string, error) { return "token", nil }
func (fakeJWT) Verify(string) (jwt.Claims, error)       { return jwt.Claims{}, nil }

type staticID struct{}

func (staticID) Generate() string { return "cid" }

func serve(f *fakeUC, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	r := router.NewRouter(router.Config{UUID: staticID{}, JWT: fakeJWT{}, Instrument: instrument.NewNoop()})
	RegisterHTTPEndpoint(r, f, router.RequireHeaderSecret("X-Cron-Secret", func() string { return "k" }, "INVALID_CRON_SECRET"))

	req := httptest.NewRequest(method, path, strings.NewReader(""))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRunNotificationsEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		wantCode int
		wantRuns int
	}{
		{name: "wrong secret", secret: "nope", wantCode: http.StatusUnauthorized},
		{name: "right secret", secret: "k", wantCode: http.StatusOK, wantRuns: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeUC{}

			rec := serve(f, http.MethodPost, "/api/v1/roadmap/notifications/run", map[string]string{"X-Cron-Secret": tt.secret})

			if rec.Code != tt.wantCode || f.runs != tt.wantRuns {
				t.Fatalf("code = %d runs = %d", rec.Code, f.runs)
			}
		})
	}
}

func TestDeleteTemplateEndpoint(t *testing.T) {
	// Arrange
	f := &fakeUC{}

	// Act
	rec := serve(f, http.MethodDelete, "/api/v1/roadmap/templates/7", map[string]string{"Authorization": "Bearer x"})

	// Assert
	if rec.Code != http.StatusNoContent {
		t.Fatalf("code = %d", rec.Code)
	}
	if f.deleted != 7 {
		t.Fatalf("deleted = %d", f.deleted)
	}
}
