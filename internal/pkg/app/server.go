package app

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/ziyasal/pomaitools/internal/pkg/common"
	"github.com/ziyasal/pomaitools/internal/pkg/soak"
)

const (
	defaultServerRWTimeout = 5 * time.Second
)

// ProgressSource reports the state of an in-flight soak run.
type ProgressSource interface {
	Progress() soak.Progress
}

// Server is the status side-channel of a soak run.
type Server struct {
	addr         string
	pprofEnabled bool
	progress     ProgressSource
	metrics      http.Handler
	logger       common.Logger
	mu           sync.Mutex
	srv          *http.Server
	closed       bool
	readTimeout  time.Duration
	writeTimeout time.Duration
}

type serverOption func(*Server)

func NewServer(addr string, p ProgressSource, opts ...serverOption) *Server {
	s := &Server{
		addr:         addr,
		progress:     p,
		logger:       common.NewDefaultLogger(),
		readTimeout:  defaultServerRWTimeout,
		writeTimeout: defaultServerRWTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func WithPprof(enabled bool) serverOption {
	return func(h *Server) {
		h.pprofEnabled = enabled
	}
}

// WithMetrics mounts a Prometheus handler under /v1/metrics.
func WithMetrics(handler http.Handler) serverOption {
	return func(h *Server) {
		h.metrics = handler
	}
}

func WithServerReadTimeout(t time.Duration) serverOption {
	return func(h *Server) {
		h.readTimeout = t
	}
}

func WithServerWriteTimeout(t time.Duration) serverOption {
	return func(h *Server) {
		h.writeTimeout = t
	}
}

func WithLogger(l common.Logger) serverOption {
	return func(h *Server) {
		h.logger = l
	}
}

func WithMode(mode string) serverOption {
	return func(h *Server) {
		if mode == gin.DebugMode {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
	}
}

func (s *Server) Run() error {
	r := s.newRouter()

	if s.pprofEnabled {
		pprof.Register(r, "dev/pprof")
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      r,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}
	s.srv = srv
	s.mu.Unlock()

	s.logger.Info("status server listening on " + s.addr)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Err("status server startup failed", err)
		return err
	}

	return nil
}

// Shutdown stops the server. Calling it before Run has started makes Run a no-op.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	srv := s.srv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	return srv.Shutdown(ctx)
}
