// Package web serves the browser frontend and JSON API of the storage DApp.
package web

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/branched-services/go-storagedapp"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// maxNotifications bounds the toasts kept between page loads.
const maxNotifications = 16

// Config configures the frontend.
type Config struct {
	InstallURL     string
	RequestTimeout time.Duration
	RateLimit      float64
	RateBurst      int

	// Metrics is mounted on /metrics when set.
	Metrics http.Handler
}

// WorkflowFactory creates a workflow reporting to the given notifier.
// It is called on startup and for every connection refresh.
type WorkflowFactory func(n storagedapp.Notifier) *storagedapp.Workflow

// Server holds the current workflow and the notifications not yet shown.
type Server struct {
	cfg         Config
	log         log.Logger
	newWorkflow WorkflowFactory
	notes       *storagedapp.NotificationLog
	limiter     *clientLimiter

	mu sync.Mutex
	wf *storagedapp.Workflow
}

// NewServer creates a server. Call Connect before serving.
func NewServer(cfg Config, factory WorkflowFactory, logger log.Logger) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = time.Minute
	}
	return &Server{
		cfg:         cfg,
		log:         logger,
		newWorkflow: factory,
		notes:       storagedapp.NewNotificationLog(maxNotifications),
		limiter:     newClientLimiter(cfg.RateLimit, cfg.RateBurst, 0),
	}
}

// Connect replaces the current workflow with a fresh one and initializes it.
// The workflow is installed even when initialization fails so its state can
// be shown.
func (s *Server) Connect(ctx context.Context) error {
	wf := s.newWorkflow(s.notes)
	s.mu.Lock()
	s.wf = wf
	s.mu.Unlock()
	return wf.Init(ctx)
}

// Workflow returns the current workflow, or nil before Connect.
func (s *Server) Workflow() *storagedapp.Workflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wf
}

// Notifications returns the log that collects workflow notifications.
func (s *Server) Notifications() *storagedapp.NotificationLog {
	return s.notes
}

// Handler returns the HTTP router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(s.recoverPanics)

	r.Get("/healthz", s.handleHealth)
	if s.cfg.Metrics != nil {
		r.Handle("/metrics", s.cfg.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))

		r.Get("/", s.handleIndex)
		r.Get("/install", s.handleInstall)
		r.Get("/api/state", s.handleState)

		r.Group(func(r chi.Router) {
			r.Use(s.limitOperations)

			r.Post("/get", s.handleGetForm)
			r.Post("/set", s.handleSetForm)
			r.Post("/reload", s.handleReloadForm)

			r.Post("/api/get", s.handleGet)
			r.Post("/api/set", s.handleSet)
			r.Post("/api/reload", s.handleReload)
		})
	})
	return r
}
