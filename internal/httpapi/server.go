package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gamelxrd/internal/catalog"
	"gamelxrd/internal/logging"
	"gamelxrd/internal/media"
	"gamelxrd/internal/metrics"
	"gamelxrd/internal/pricing"
	"gamelxrd/internal/services"
)

const requestIDHeader = "X-Request-ID"

// Catalog resolves search suggestions and descriptors for the API.
type Catalog interface {
	Search(ctx context.Context, kind media.Kind, query string) ([]catalog.Suggestion, error)
	Lookup(ctx context.Context, kind media.Kind, id string) (media.Descriptor, error)
}

// CacheCounter reports how many descriptors are cached.
type CacheCounter interface {
	Count(ctx context.Context) (int, error)
}

// StreamChecker reports whether a channel is live.
type StreamChecker interface {
	Live(ctx context.Context, login string) (bool, error)
}

// Options configures a Server. Engine defaults to the embedded keyword
// tables; Catalog may be nil for an offline server that only prices
// descriptors posted to /api/quote. A nil Stream reports Channel offline.
type Options struct {
	Bind        string
	CheckoutURL string
	Engine      *pricing.Engine
	Catalog     Catalog
	Cache       CacheCounter
	Stream      StreamChecker
	Channel     string
	Metrics     *metrics.Registry
	Logger      *slog.Logger
	Version     string
}

// Server exposes the catalog and the quote engine over HTTP.
type Server struct {
	opts    Options
	logger  *slog.Logger
	engine  *pricing.Engine
	started time.Time
	handler http.Handler

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

// New builds a server. Call Start to begin listening or use Handler directly.
func New(opts Options) *Server {
	s := &Server{
		opts:    opts,
		logger:  logging.NewComponentLogger(opts.Logger, "http-api"),
		engine:  opts.Engine,
		started: time.Now(),
	}
	if s.engine == nil {
		s.engine = pricing.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/movie/{id}", s.handleDescriptor(media.KindMovie))
	mux.HandleFunc("GET /api/tv/{id}", s.handleDescriptor(media.KindTV))
	mux.HandleFunc("GET /api/game/{id}", s.handleDescriptor(media.KindGame))
	mux.HandleFunc("POST /api/quote", s.handleQuote)
	mux.HandleFunc("GET /api/quote/{kind}/{id}", s.handleQuoteLookup)
	mux.HandleFunc("GET /api/stream", s.handleStream)
	mux.Handle("GET /metrics", opts.Metrics.Handler())

	s.handler = s.withRequestID(s.withCORS(s.withAccessLog(mux)))
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured bind address and serves until ctx is
// cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	bind := strings.TrimSpace(s.opts.Bind)
	if bind == "" {
		return services.Wrap(services.ErrConfiguration, "http-api", "start", "bind address required", nil)
	}
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.mu.Lock()
	s.listener = listener
	s.server = server
	s.mu.Unlock()

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr reports the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the listener down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()
	if server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(services.WithRequestID(r.Context(), id)))
	})
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		header.Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		header.Set("Access-Control-Expose-Headers", requestIDHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

func (s *Server) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		logger := logging.WithContext(r.Context(), s.logger)
		attrs := []logging.Attr{
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", rec.status),
			logging.Int("bytes", rec.bytes),
			logging.Duration("elapsed", time.Since(start)),
		}
		if rec.status >= http.StatusInternalServerError {
			logger.Warn("request failed", logging.Args(attrs...)...)
			return
		}
		logger.Debug("request served", logging.Args(attrs...)...)
	})
}
