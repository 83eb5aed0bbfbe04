package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"trip-planner/internal/application/port/input"
	"trip-planner/internal/application/port/output"
	"trip-planner/internal/domain/entity"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	DefaultAddr            = ":8080"
	DefaultShutdownTimeout = 5 * time.Second
)

type Config struct {
	Addr string
	// Operator credentials fill in whatever the form leaves blank. When both
	// are set the form does not ask for keys at all.
	Operator        entity.Credentials
	ShutdownTimeout time.Duration
	ServiceName     string
	// AccessLogJSON switches the request log from console to JSON lines.
	AccessLogJSON bool
}

type Server struct {
	planner  input.TripPlanner
	logger   output.LoggerPort
	metrics  http.Handler
	renderer *Renderer
	page     *template.Template
	cfg      Config
	router   chi.Router
}

// NewServer builds the HTTP shell around planner. metrics may be nil.
func NewServer(planner input.TripPlanner, logger output.LoggerPort, metrics http.Handler, cfg Config) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "trip-planner"
	}

	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		planner:  planner,
		logger:   logger,
		metrics:  metrics,
		renderer: NewRenderer(),
		page:     page,
		cfg:      cfg,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	accessLog := httplog.NewLogger(s.cfg.ServiceName, httplog.Options{
		JSON:    s.cfg.AccessLogJSON,
		Concise: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(accessLog))

	r.Get("/", s.handleIndex)
	r.Post("/plan", s.handlePlan)
	r.Post("/api/plan", s.handleAPIPlan)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", "addr", s.cfg.Addr, "operatorMode", s.operatorMode())
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)

	case <-ctx.Done():
		s.logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("Graceful shutdown did not complete", "timeout", s.cfg.ShutdownTimeout, "error", err)
			return srv.Close()
		}
		return nil
	}
}

func (s *Server) operatorMode() bool {
	return s.cfg.Operator.Complete()
}
