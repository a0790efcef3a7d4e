package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/jwt"
	"github.com/shandysiswandi/shopdesk/internal/pkg/validator"
)

type fakeJWT struct {
	claims jwt.Claims
	err    error
}

func (f *fakeJWT) Generate(string, string) (string, error) { return "token", nil }
func (f *fakeJWT) Verify(string) (jwt.Claims, error)       { return f.claims, f.err }

type staticUUID struct{}

func (staticUUID) Generate() string { return "cid-test" }

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Context map[string]any `json:"context"`
	} `json:"error"`
}

func newTestRouter(v *fakeJWT) *Router {
	return NewRouter(Config{UUID: staticUUID{}, JWT: v, Instrument: instrument.NewNoop()})
}

func do(t *testing.T, h http.Handler, method, path, auth string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(""))
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func TestRouter_Authentication(t *testing.T) {
	// Arrange
	called := 0
	r := newTestRouter(&fakeJWT{claims: jwt.Claims{Email: "a@b.c"}})
	r.GET("/api/v1/agenda/events", func(req *Request) (any, error) {
		called++
		clm := jwt.GetAuth(req.Context())
		return map[string]string{"email": clm.Email}, nil
	})

	t.Run("missing token", func(t *testing.T) {
		rec, env := do(t, r, http.MethodGet, "/api/v1/agenda/events", "")
		if rec.Code != http.StatusUnauthorized || env.OK || env.Error.Code != "UNAUTHORIZED" {
			t.Fatalf("unexpected response %d %+v", rec.Code, env)
		}
		if called != 0 {
			t.Fatal("handler must not run without token")
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		rec, _ := do(t, r, http.MethodGet, "/api/v1/agenda/events", "Token abc")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		rec, env := do(t, r, http.MethodGet, "/api/v1/agenda/events", "Bearer abc")
		if rec.Code != http.StatusOK || !env.OK {
			t.Fatalf("unexpected response %d %+v", rec.Code, env)
		}
		if got := rec.Header().Get(HeaderCorrelationID); got != "cid-test" {
			t.Fatalf("correlation id header = %q", got)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		bad := newTestRouter(&fakeJWT{err: errors.New("bad")})
		bad.GET("/api/v1/agenda/events", func(*Request) (any, error) { return nil, nil })

		rec, env := do(t, bad, http.MethodGet, "/api/v1/agenda/events", "Bearer abc")
		if rec.Code != http.StatusUnauthorized || env.Error.Message != "Invalid or expired token" {
			t.Fatalf("unexpected response %d %+v", rec.Code, env)
		}
	})
}

func TestRouter_PublicEndpoint(t *testing.T) {
	r := newTestRouter(&fakeJWT{err: errors.New("never called")})
	r.POST("/api/v1/agenda/reminders/run", func(*Request) (any, error) {
		return map[string]int{"processed": 0}, nil
	})

	rec, env := do(t, r, http.MethodPost, "/api/v1/agenda/reminders/run", "")
	if rec.Code != http.StatusOK || !env.OK {
		t.Fatalf("unexpected response %d %+v", rec.Code, env)
	}
}

func TestRouter_ErrorEnvelope(t *testing.T) {
	r := newTestRouter(&fakeJWT{})

	r.POST("/conflict", func(*Request) (any, error) {
		return nil, goerror.NewBusiness("parts are not reserved", goerror.CodeConflict,
			goerror.WithReason("PARTS_NOT_RESERVED"), goerror.WithContext("unreserved", 2))
	})
	r.POST("/validation", func(*Request) (any, error) {
		return nil, goerror.NewInvalidInput(validator.V10ValidationError{"status": "status is required"})
	})
	r.POST("/raw", func(*Request) (any, error) {
		return nil, errors.New("db down")
	})

	t.Run("business", func(t *testing.T) {
		rec, env := do(t, r, http.MethodPost, "/conflict", "Bearer x")
		if rec.Code != http.StatusConflict || env.Error.Code != "PARTS_NOT_RESERVED" {
			t.Fatalf("unexpected response %d %+v", rec.Code, env)
		}
		if env.Error.Context["unreserved"] != float64(2) {
			t.Fatalf("context = %v", env.Error.Context)
		}
	})

	t.Run("validation", func(t *testing.T) {
		rec, env := do(t, r, http.MethodPost, "/validation", "Bearer x")
		if rec.Code != http.StatusBadRequest || env.Error.Code != "VALIDATION_ERROR" {
			t.Fatalf("unexpected response %d %+v", rec.Code, env)
		}
		fields, ok := env.Error.Context["fields"].(map[string]any)
		if !ok || fields["status"] != "status is required" {
			t.Fatalf("fields = %v", env.Error.Context)
		}
	})

	t.Run("unknown error", func(t *testing.T) {
		rec, env := do(t, r, http.MethodPost, "/raw", "Bearer x")
		if rec.Code != http.StatusInternalServerError || env.Error.Code != "INTERNAL_ERROR" {
			t.Fatalf("unexpected response %d %+v", rec.Code, env)
		}
		if strings.Contains(rec.Body.String(), "db down") {
			t.Fatal("internal error leaked")
		}
	})

	t.Run("not found route", func(t *testing.T) {
		rec, env := do(t, r, http.MethodGet, "/nope", "Bearer x")
		if rec.Code != http.StatusNotFound || env.Error.Code != "NOT_FOUND" {
			t.Fatalf("unexpected response %d %+v", rec.Code, env)
		}
	})
}

func TestRouter_SuccessShapes(t *testing.T) {
	r := newTestRouter(&fakeJWT{})
	r.POST("/created", func(*Request) (any, error) { return Created{Data: map[string]int{"id": 7}}, nil })
	r.DELETE("/empty", func(*Request) (any, error) { return nil, nil })
	r.GET("/redirect", func(*Request) (any, error) { return Redirect{URL: "https://provider.test/auth"}, nil })
	r.GET("/list", func(*Request) (any, error) {
		return List[int]{Items: nil, Total: 0, Limit: 20}, nil
	})

	t.Run("created", func(t *testing.T) {
		rec, env := do(t, r, http.MethodPost, "/created", "Bearer x")
		if rec.Code != http.StatusCreated || string(env.Data) != `{"id":7}` {
			t.Fatalf("unexpected response %d %s", rec.Code, env.Data)
		}
	})

	t.Run("no content", func(t *testing.T) {
		rec, _ := do(t, r, http.MethodDelete, "/empty", "Bearer x")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("redirect", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/redirect", nil)
		req.Header.Set("Authorization", "Bearer x")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusFound || rec.Header().Get("Location") != "https://provider.test/auth" {
			t.Fatalf("unexpected redirect %d %q", rec.Code, rec.Header().Get("Location"))
		}
	})

	t.Run("list", func(t *testing.T) {
		rec, env := do(t, r, http.MethodGet, "/list", "Bearer x")
		if rec.Code != http.StatusOK || string(env.Data) != `[]` || env.Meta["limit"] != float64(20) {
			t.Fatalf("unexpected response %d %s %v", rec.Code, env.Data, env.Meta)
		}
	})
}

func TestRouter_Recoverer(t *testing.T) {
	r := newTestRouter(&fakeJWT{})
	r.GET("/panic", func(*Request) (any, error) { panic("boom") })

	rec, env := do(t, r, http.MethodGet, "/panic", "Bearer x")
	if rec.Code != http.StatusInternalServerError || env.Error.Code != "INTERNAL_ERROR" {
		t.Fatalf("unexpected response %d %+v", rec.Code, env)
	}
}
