// Package server hosts the portfolio over HTTP: the rendered page, the
// contact endpoint, the live view channel and the operational endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/metrics"
	"github.com/Zachkp/portfolio/internal/profile"
	"github.com/Zachkp/portfolio/internal/render"
	"github.com/Zachkp/portfolio/internal/visitors"
)

// cleanupInterval is how often expired visit rows are swept.
const cleanupInterval = 24 * time.Hour

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to logger.Get().
func WithLogger(l logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithRelay sets the contact relay. Defaults to contact.NopRelay.
func WithRelay(r contact.Relay) Option {
	return func(s *Server) { s.relay = r }
}

// WithVisitors enables visit tracking backed by store.
func WithVisitors(store *visitors.Store) Option {
	return func(s *Server) { s.visitors = store }
}

// WithMetrics sets the metrics manager. Defaults to a fresh one.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Server) { s.metrics = m }
}

// Server wires the HTTP routes to the site's components.
type Server struct {
	cfg      *config.Config
	profile  *profile.Profile
	renderer *render.Renderer
	log      logger.Logger
	relay    contact.Relay
	visitors *visitors.Store
	metrics  *metrics.Manager

	engine   *gin.Engine
	upgrader websocket.Upgrader
	live     atomic.Int64
}

// New builds the server and its routes. p must already be validated.
func New(cfg *config.Config, p *profile.Profile, opts ...Option) (*Server, error) {
	if cfg == nil || p == nil {
		return nil, errors.New("server: config and profile are required")
	}
	r, err := render.New()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		profile:  p,
		renderer: r,
		relay:    contact.NopRelay{},
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	s.log = s.log.Named("server")
	if s.metrics == nil {
		s.metrics = metrics.New()
	}

	gin.SetMode(cfg.GinMode)
	s.engine = gin.New()
	s.engine.Use(gin.Recovery())
	if cfg.GinMode == gin.DebugMode {
		s.engine.Use(gin.Logger())
	}
	s.engine.Use(s.metrics.Middleware())
	if s.visitors != nil {
		s.engine.Use(visitors.Middleware(s.visitors, s.log.Named("visitors")))
	}
	s.engine.SetHTMLTemplate(r.Templates())
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.engine
	r.StaticFS("/static", http.FS(render.Static()))

	r.GET("/", s.handleIndex)
	r.GET("/ws", s.handleLive)
	r.GET("/contact-form", s.handleContactForm)
	r.POST("/contact", s.handleContact)

	api := r.Group("/api")
	api.GET("/profile", s.handleProfile)
	api.GET("/visits", s.handleVisits)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// LiveViews is the number of currently mounted live views.
func (s *Server) LiveViews() int {
	return int(s.live.Load())
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info(gctx, "listening", logger.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout())
		defer cancel()
		s.log.Info(shutdownCtx, "shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if s.visitors != nil {
		g.Go(func() error {
			retention := time.Duration(s.cfg.VisitorRetentionDays) * 24 * time.Hour
			visitors.RunCleanup(gctx, s.visitors, retention, cleanupInterval, s.log.Named("visitors"))
			return nil
		})
	}
	return g.Wait()
}
