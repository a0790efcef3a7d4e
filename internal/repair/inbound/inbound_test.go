package inbound

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/pkg/config"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/jwt"
	"github.com/shandysiswandi/shopdesk/internal/pkg/router"
	"github.com/shandysiswandi/shopdesk/internal/pkg/scheduler"
	"github.com/shandysiswandi/shopdesk/internal/repair/entity"
	"github.com/shandysiswandi/shopdesk/internal/repair/usecase"
)

type fakeUC struct {
	uc
	digests  int
	list     usecase.ListRepairsInput
	release  usecase.ReleasePartsInput
	upload   usecase.UploadInput
	uploaded string
	attach   error
}

func (f *fakeUC) RunDryingCheck(context.Context) (*usecase.RunDryingCheckOutput, error) {
	return &usecase.RunDryingCheckOutput{Processed: 1}, nil
}

func (f *fakeUC) RunDailyDigest(context.Context) (*usecase.RunDailyDigestOutput, error) {
	f.digests++
	return &usecase.RunDailyDigestOutput{Counts: map[string]int{"in_repair": 2}}, nil
}

func (f *fakeUC) ListRepairs(_ context.Context, in usecase.ListRepairsInput) (*usecase.ListRepairsOutput, error) {
	f.list = in
	return &usecase.ListRepairsOutput{
		Items:  []entity.Repair{{ID: 1, Reference: "REP-261014-00ABCD", Status: entity.StatusInRepair}},
		Total:  1,
		Limit:  20,
		Offset: in.Offset,
	}, nil
}

func (f *fakeUC) AttachPart(_ context.Context, in usecase.AttachPartInput) (*entity.Item, error) {
	if f.attach != nil {
		return nil, f.attach
	}
	return &entity.Item{ID: 5, RepairID: in.RepairID, ProductID: in.ProductID, Quantity: in.Quantity, Reserved: true}, nil
}

func (f *fakeUC) ReleaseParts(_ context.Context, in usecase.ReleasePartsInput) (int64, error) {
	f.release = in
	return 2, nil
}

func (f *fakeUC) UploadPhoto(_ context.Context, in usecase.UploadInput) (*entity.Photo, error) {
	f.upload = in
	b, err := io.ReadAll(in.File)
	if err != nil {
		return nil, err
	}
	f.uploaded = string(b)
	return &entity.Photo{ID: 3, RepairID: in.RepairID, URL: "https://cdn/x", CreatedAt: time.Now()}, nil
}

type fakeJWT struct{}

func (fakeJWT) Generate(string, string) (string, error) { return "token", nil }
func (fakeJWT) Verify(string) (jwt.Claims, error)       { return jwt.Claims{Email: "a@b.c"}, nil }

type staticID struct{}

func (staticID) Generate() string { return "cid" }

var bearer = map[string]string{"Authorization": "Bearer x"}

func newTestRouter(t *testing.T, f *fakeUC) *router.Router {
	t.Helper()
	r := router.NewRouter(router.Config{UUID: staticID{}, JWT: fakeJWT{}, Instrument: instrument.NewNoop()})
	guard := router.RequireHeaderSecret("X-Cron-Secret", func() string { return "s3cret" }, "INVALID_CRON_SECRET")
	RegisterHTTPEndpoint(r, f, guard)
	return r
}

func do(r http.Handler, method, path string, body io.Reader, contentType string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestListRepairsEndpoint(t *testing.T) {
	// Arrange
	f := &fakeUC{}
	r := newTestRouter(t, f)

	// Act
	rec := do(r, http.MethodGet, "/api/v1/repairs?status=in_repair&offset=10", nil, "", bearer)

	// Assert
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if f.list.Status != "in_repair" || f.list.Offset != 10 {
		t.Fatalf("unexpected input %+v", f.list)
	}
	if !strings.Contains(rec.Body.String(), "REP-261014-00ABCD") {
		t.Fatalf("missing reference in %s", rec.Body.String())
	}
}

func TestAttachPartEndpoint(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := &fakeUC{}
		r := newTestRouter(t, f)

		rec := do(r, http.MethodPost, "/api/v1/repairs/7/parts", strings.NewReader(`{"product_id":4,"quantity":1}`),
			"application/json", bearer)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("insufficient stock carries candidates", func(t *testing.T) {
		// Arrange
		f := &fakeUC{attach: goerror.NewBusiness("Insufficient stock", goerror.CodeUnprocessable,
			goerror.WithReason("INSUFFICIENT_STOCK"),
			goerror.WithContext("candidates", []entity.StockLevel{{ProductID: 4, StockID: 2, StockName: "Atelier", Available: 1}}),
		)}
		r := newTestRouter(t, f)

		// Act
		rec := do(r, http.MethodPost, "/api/v1/repairs/7/parts", strings.NewReader(`{"product_id":4,"quantity":2}`),
			"application/json", bearer)

		// Assert
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "INSUFFICIENT_STOCK") || !strings.Contains(body, "candidates") {
			t.Fatalf("unexpected body %s", body)
		}
	})
}

func TestReleasePartsEndpoint(t *testing.T) {
	t.Run("whole ticket", func(t *testing.T) {
		f := &fakeUC{}
		r := newTestRouter(t, f)

		rec := do(r, http.MethodDelete, "/api/v1/repairs/7/parts", nil, "", bearer)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if f.release.RepairID != 7 || f.release.ItemID != nil {
			t.Fatalf("unexpected input %+v", f.release)
		}
	})

	t.Run("single item", func(t *testing.T) {
		f := &fakeUC{}
		r := newTestRouter(t, f)

		rec := do(r, http.MethodDelete, "/api/v1/repairs/7/parts?item_id=5", nil, "", bearer)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if f.release.ItemID == nil || *f.release.ItemID != 5 {
			t.Fatalf("unexpected input %+v", f.release)
		}
	})
}

func TestUploadPhotoEndpoint(t *testing.T) {
	// Arrange
	f := &fakeUC{}
	r := newTestRouter(t, f)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="p.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write([]byte("png-bytes"))
	_ = mw.Close()

	// Act
	rec := do(r, http.MethodPost, "/api/v1/repairs/7/photos", &buf, mw.FormDataContentType(), bearer)

	// Assert
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if f.upload.RepairID != 7 || f.upload.ContentType != "image/png" || f.uploaded != "png-bytes" {
		t.Fatalf("unexpected upload %+v %q", f.upload, f.uploaded)
	}
}

func TestRunDailyDigestEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		wantCode int
		wantRuns int
	}{
		{name: "missing secret", wantCode: http.StatusUnauthorized},
		{name: "wrong secret", headers: map[string]string{"X-Cron-Secret": "nope"}, wantCode: http.StatusUnauthorized},
		{name: "valid secret", headers: map[string]string{"X-Cron-Secret": "s3cret"}, wantCode: http.StatusOK, wantRuns: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeUC{}
			r := newTestRouter(t, f)

			rec := do(r, http.MethodPost, "/api/v1/repairs-digest/run", nil, "", tt.headers)

			if rec.Code != tt.wantCode || f.digests != tt.wantRuns {
				t.Fatalf("status = %d runs = %d", rec.Code, f.digests)
			}
			if tt.wantRuns == 0 {
				return
			}
			var env struct {
				Data struct {
					Counts map[string]int `json:"counts"`
				} `json:"data"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatal(err)
			}
			if env.Data.Counts["in_repair"] != 2 {
				t.Fatalf("counts = %v", env.Data.Counts)
			}
		})
	}
}

func TestRegisterCronJob(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.NewViperFromBytes("yaml", []byte(""))
		if err != nil {
			t.Fatal(err)
		}

		if err := RegisterCronJob(scheduler.New(time.UTC, staticID{}), cfg, &fakeUC{}); err != nil {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("invalid digest spec", func(t *testing.T) {
		cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  repair:\n    cron:\n      digest: \"every day\"\n"))
		if err != nil {
			t.Fatal(err)
		}

		if err := RegisterCronJob(scheduler.New(time.UTC, staticID{}), cfg, &fakeUC{}); err == nil {
			t.Fatal("expected an error")
		}
	})
}
