// Package api exposes the ledger engine over HTTP as a set of named
// procedures. Each procedure is a POST to /rpc/{procedure} with a JSON
// object body; engine errors are returned as faults carrying the error
// kind and a human-readable reason.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/xraph/finledger"
)

// Defaults for the service description.
const (
	DefaultServiceName = "FinanceService"
	DefaultNamespace   = "http://myproject.com/finance"
)

// maxBodyBytes caps a procedure request body.
const maxBodyBytes = 1 << 20

// Handler routes procedure calls to a ledger engine.
type Handler struct {
	engine *finledger.Ledger
	logger *slog.Logger

	serviceName string
	namespace   string
	origins     []string
	timeout     time.Duration

	procedures map[string]procedure
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// WithService sets the service name and namespace reported by GET /.
func WithService(name, namespace string) Option {
	return func(h *Handler) {
		if name != "" {
			h.serviceName = name
		}
		if namespace != "" {
			h.namespace = namespace
		}
	}
}

// WithCORSOrigins sets the allowed CORS origins (default "*").
func WithCORSOrigins(origins ...string) Option {
	return func(h *Handler) {
		if len(origins) > 0 {
			h.origins = origins
		}
	}
}

// WithTimeout bounds each request (default 30s).
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// New creates a Handler for engine.
func New(engine *finledger.Ledger, opts ...Option) *Handler {
	h := &Handler{
		engine:      engine,
		logger:      slog.Default(),
		serviceName: DefaultServiceName,
		namespace:   DefaultNamespace,
		origins:     []string{"*"},
		timeout:     30 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.procedures = h.register()
	return h
}

// Procedures returns the sorted procedure names.
func (h *Handler) Procedures() []string {
	names := make([]string, 0, len(h.procedures))
	for name := range h.procedures {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Routes builds the chi router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(h.timeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", h.describe)
	r.Get("/health", h.health)
	r.Post("/rpc/{procedure}", h.call)

	return r
}

// ServiceDescription is returned by GET /.
type ServiceDescription struct {
	Service    string   `json:"service"`
	Namespace  string   `json:"namespace"`
	Procedures []string `json:"procedures"`
}

func (h *Handler) describe(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ServiceDescription{
		Service:    h.serviceName,
		Namespace:  h.namespace,
		Procedures: h.Procedures(),
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Health(r.Context()); err != nil {
		writeFault(w, finledger.KindInternal, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) call(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "procedure")
	proc, ok := h.procedures[name]
	if !ok {
		writeFault(w, finledger.KindNotFound, "unknown procedure "+name)
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	result, err := proc(r.Context(), dec)
	if err != nil {
		kind := finledger.KindOf(err)
		if kind == finledger.KindInternal {
			h.logger.Error("procedure failed",
				"procedure", name,
				"request_id", middleware.GetReqID(r.Context()),
				"error", err,
			)
		}
		writeFault(w, kind, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		h.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data) //nolint:errcheck // headers already sent
}
