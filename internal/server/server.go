// Package server exposes the intake workflow over HTTP using gin.
//
// Routes live under /api/v1. Every API request passes through request-ID,
// logging, recovery and session middleware; submissions are additionally
// rate limited.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/minwook-byun/recpool/internal/intake"
)

// SessionCookie is the cookie that marks a browser session for visit counting.
const SessionCookie = "recpool_session"

// DefaultListLimit is the number of recommendations returned when ?limit is absent.
const DefaultListLimit = 10

// shutdownTimeout bounds graceful shutdown in Run.
const shutdownTimeout = 5 * time.Second

// Server is the HTTP front end for an intake.Service.
type Server struct {
	svc       *intake.Service
	engine    *gin.Engine
	logger    *slog.Logger
	limiter   *rate.Limiter
	sessionID func() string
	requestID func() string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithSubmitRate limits accepted submissions to r per second with the given
// burst. A non-positive r disables the limit.
func WithSubmitRate(r float64, burst int) Option {
	return func(s *Server) {
		if r <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

// WithSessionIDGenerator replaces the UUIDv7 session ID source.
func WithSessionIDGenerator(gen func() string) Option {
	return func(s *Server) {
		s.sessionID = gen
	}
}

// WithRequestIDGenerator replaces the UUIDv4 request ID source.
func WithRequestIDGenerator(gen func() string) Option {
	return func(s *Server) {
		s.requestID = gen
	}
}

// New builds the router. The returned Server is ready to serve.
func New(svc *intake.Service, opts ...Option) *Server {
	s := &Server{
		svc:       svc,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		limiter:   rate.NewLimiter(rate.Inf, 0),
		sessionID: newSessionID,
		requestID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.engine = s.routes()
	return s
}

// Handler returns the http.Handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.requestIDMiddleware(), s.loggerMiddleware(), s.recoveryMiddleware())

	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api/v1", s.sessionMiddleware())
	api.GET("/search", s.handleSearch)
	api.GET("/recommendations", s.handleList)
	api.POST("/recommendations", s.rateLimitMiddleware(), s.handleSubmit)
	api.GET("/visits", s.handleVisits)
	api.GET("/pool", s.handlePool)

	return r
}

// newSessionID returns a time-ordered UUIDv7, falling back to a random UUID.
func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
