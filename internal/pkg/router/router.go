package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/shopdesk/internal/pkg/config"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/instrument"
	"github.com/shandysiswandi/shopdesk/internal/pkg/jwt"
	"github.com/shandysiswandi/shopdesk/internal/pkg/uid"
	"github.com/shandysiswandi/shopdesk/internal/pkg/validator"
)

type errorBody struct {
	Code    string         `json:"code" example:"NOT_FOUND"`
	Message string         `json:"message" example:"repair not found"`
	Context map[string]any `json:"context,omitempty" swaggertype:"object"`
}

type errorResponse struct {
	OK    bool      `json:"ok"`
	Error errorBody `json:"error"`
}

type successResponse struct {
	OK   bool           `json:"ok"`
	Data any            `json:"data" swaggertype:"object"`
	Meta map[string]any `json:"meta,omitempty" swaggertype:"object"`
}

// Handler is the application-style handler used by this router.
//
// It returns a response payload (that will be JSON encoded) or an error.
type Handler func(r *Request) (any, error)

// Config holds dependencies required to build a Router.
type Config struct {
	Config     config.Config
	UUID       uid.StringID
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
}

// Router is an http.Handler that wraps httprouter and a middleware chain.
type Router struct {
	hr         *httprouter.Router
	errorCodec func(ctx context.Context, w http.ResponseWriter, err error)
	encoder    func(w http.ResponseWriter, r *http.Request, resp any)
	mws        []Middleware
}

// publicEndpoints skip bearer authentication. Cron triggers, webhooks and
// OAuth callbacks authenticate with their own secrets.
var publicEndpoints = map[string]map[string]struct{}{
	http.MethodGet: {
		"/":                                  {},
		"/health":                            {},
		"/api/v1/marketplace/oauth/callback": {},
	},
	http.MethodPost: {
		"/api/v1/agenda/reminders/run":       {},
		"/api/v1/roadmap/notifications/run":  {},
		"/api/v1/repairs-digest/run":         {},
		"/api/v1/repairs-drying/run":         {},
		"/api/v1/consignments/unpaid/run":    {},
		"/api/v1/consignments/invoices/sync": {},
		"/api/v1/telegram/webhook/:id":       {},
	},
}

// NewRouter builds the default application router with standard middleware.
func NewRouter(cfg Config) *Router {
	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, "NOT_FOUND", "endpoint not found", nil, http.StatusNotFound)
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, "METHOD_NOT_ALLOWED", "method not allowed", nil, http.StatusMethodNotAllowed)
		}),
	}

	hr.GET("/", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		writeJSON(w, successResponse{OK: true, Data: map[string]string{"name": "shopdesk"}}, http.StatusOK)
	})
	hr.GET("/health", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		writeJSON(w, successResponse{OK: true, Data: map[string]string{"status": "ok"}}, http.StatusOK)
	})

	return &Router{
		hr:         hr,
		errorCodec: encodeError,
		encoder:    encodeSuccess,
		mws: []Middleware{
			middlewareRecoverer,
			middlewareIP,
			middlewareCorrelationID(cfg.UUID),
			middlewareObservability(cfg.Config, cfg.Instrument),
			middlewareMaintenance(cfg.Config),
			middlewareAuthentication(cfg.JWT, publicEndpoints),
		},
	}
}

func encodeError(_ context.Context, w http.ResponseWriter, err error) {
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		writeError(w, "INTERNAL_ERROR", "Internal server error", nil, http.StatusInternalServerError)
		return
	}

	ctx := gerr.Context()

	var errValidate validator.V10ValidationError
	fields := gerr.Fields()
	if errors.As(err, &errValidate) {
		fields = errValidate.Values()
	}
	if len(fields) > 0 {
		if ctx == nil {
			ctx = make(map[string]any, 1)
		}
		ctx["fields"] = fields
	}

	writeError(w, gerr.Reason(), gerr.Msg(), ctx, gerr.StatusCode())
}

func encodeSuccess(w http.ResponseWriter, r *http.Request, resp any) {
	if rd, ok := resp.(interface{ RedirectURL() string }); ok {
		http.Redirect(w, r, rd.RedirectURL(), http.StatusFound)
		return
	}

	code := http.StatusOK
	if sc, ok := resp.(interface{ StatusCode() int }); ok {
		code = sc.StatusCode()
	}

	if code == http.StatusNoContent || resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	data := resp
	if d, ok := resp.(interface{ Payload() any }); ok {
		data = d.Payload()
	}

	var meta map[string]any
	if m, ok := resp.(interface{ Meta() map[string]any }); ok {
		meta = m.Meta()
	}

	writeJSON(w, successResponse{OK: true, Data: data, Meta: meta}, code)
}

// GET registers a GET endpoint using the application Handler signature.
func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, h, mws...)
}

// GETRaw registers a GET endpoint that writes directly to the response writer.
func (r *Router) GETRaw(path string, h http.Handler, mws ...Middleware) {
	r.hr.Handler(http.MethodGet, path, Chain(h, append(r.mws, mws...)...))
}

func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, h, mws...)
}

func (r *Router) PUT(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPut, path, h, mws...)
}

func (r *Router) PATCH(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPatch, path, h, mws...)
}

func (r *Router) DELETE(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodDelete, path, h, mws...)
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	r.hr.Handler(method, path, Chain(http.HandlerFunc(func(w http.ResponseWriter, re *http.Request) {
		resp, err := h(&Request{Request: re})
		if err != nil {
			if setter, ok := w.(interface{ SetError(error) }); ok {
				setter.SetError(err)
			}
			r.errorCodec(re.Context(), w, err)
			return
		}
		r.encoder(w, re, resp)
	}), append(r.mws, mws...)...))
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

func writeError(w http.ResponseWriter, code, message string, ctx map[string]any, status int) {
	writeJSON(w, errorResponse{Error: errorBody{Code: code, Message: message, Context: ctx}}, status)
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("server: failed to encode data to json", "error", err)
	}
}
