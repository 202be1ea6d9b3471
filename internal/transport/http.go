package transport

import (
	"context"
	_ "embed"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/pnaas/internal/domain/project"
	"github.com/rpggio/pnaas/internal/metrics"
)

// Fixed plain-text bodies.
const (
	msgNotFound          = "Not Found"
	msgMissingData       = "Missing data"
	msgUnsupportedMethod = "Unsupported method"
	msgInternalError     = "Internal Server Error"
	msgUnavailable       = "unavailable"
)

// maxFormBytes caps submitted form bodies.
const maxFormBytes = 1 << 20

//go:embed static/index.html
var indexPage []byte

// ProjectService defines the project operations served over HTTP.
type ProjectService interface {
	Submit(ctx context.Context, req project.SubmitRequest) (*project.Project, error)
	Retrieve(ctx context.Context, resid string) (*project.Document, error)
	Respond(ctx context.Context, resid, text string) (*project.Document, error)
}

// Options wires the router.
type Options struct {
	Projects ProjectService
	Logger   *slog.Logger

	// Metrics counts requests and, when ServeMetrics is set, is exposed on /metrics.
	Metrics      *metrics.Metrics
	ServeMetrics bool

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	TrustProxy bool

	// ResponseAuth guards POST /respond/{resid}; nil leaves it open.
	ResponseAuth TokenVerifier

	// MCP, when set, is mounted at /mcp. ResponseAuth guards it as well.
	MCP http.Handler

	// Health, when set, backs /health with a store check.
	Health func(ctx context.Context) error
}

// Server holds the HTTP handlers.
type Server struct {
	projects ProjectService
	logger   *slog.Logger
	health   func(ctx context.Context) error
}

// NewServer creates an HTTP server router with middleware.
func NewServer(opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(requestLogger(logger, opts.Metrics))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusNotFound, msgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusMethodNotAllowed, msgUnsupportedMethod)
	})

	srv := &Server{projects: opts.Projects, logger: logger, health: opts.Health}

	r.Get("/", srv.handleIndex)
	r.Get("/health", srv.handleHealth)
	r.Get("/retrieve/{resid}", srv.handleRetrieve)
	r.Post("/request", srv.handleSubmit)

	if opts.ResponseAuth != nil {
		r.With(AuthMiddleware(opts.ResponseAuth)).Post("/respond/{resid}", srv.handleRespond)
	} else {
		r.Post("/respond/{resid}", srv.handleRespond)
	}

	if opts.Metrics != nil && opts.ServeMetrics {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	if opts.MCP != nil {
		r.Group(func(r chi.Router) {
			if opts.ResponseAuth != nil {
				r.Use(AuthMiddleware(opts.ResponseAuth))
			}
			r.Handle("/mcp", opts.MCP)
			r.Handle("/mcp/*", opts.MCP)
		})
	}

	return r
}
