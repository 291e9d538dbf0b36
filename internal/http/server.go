// Package http serves the chore catalog, chore logs and score aggregates as
// a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"chores/internal/cache"
	applog "chores/internal/log"
	"chores/internal/middleware/ratelimit"
	"chores/internal/middleware/security"
	"chores/internal/middleware/trace"
	"chores/internal/services"
	"chores/internal/store"
)

// Options tunes a Server. Zero values fall back to defaults.
type Options struct {
	DefaultWeeks  int
	DefaultMonths int

	// WritesPerMinute limits POST, PATCH and DELETE requests per client.
	WritesPerMinute int

	CacheSize int
	CacheTTL  time.Duration

	Logger *applog.Logger
}

func (o Options) withDefaults() Options {
	if o.DefaultWeeks <= 0 {
		o.DefaultWeeks = 4
	}
	if o.DefaultMonths <= 0 {
		o.DefaultMonths = 6
	}
	if o.WritesPerMinute <= 0 {
		o.WritesPerMinute = ratelimit.DefaultConfig().RequestsPerMinute
	}
	if o.CacheSize <= 0 {
		o.CacheSize = 200
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = time.Minute
	}
	if o.Logger == nil {
		o.Logger = applog.New(applog.DefaultConfig())
	}
	return o
}

type Server struct {
	http.Server
	store store.Store
	board *services.Scoreboard
	opts  Options

	// Score responses, keyed by write generation, day, path and query
	scoreCache   *cache.LRUCache[[]byte]
	cacheManager *cache.Manager
	// scoreGen counts writes; a result computed before a write is stored
	// under the old generation and never served again.
	scoreGen atomic.Uint64

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware

	logger     *applog.Logger
	appMetrics *appMetrics

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. Call Shutdown to release its background goroutines.
func NewServer(addr string, st store.Store, board *services.Scoreboard, opts Options) *Server {
	opts = opts.withDefaults()
	logger := opts.Logger.WithComponent(applog.ComponentHTTP)

	s := &Server{
		store:            st,
		board:            board,
		opts:             opts,
		scoreCache:       cache.NewLRUCache[[]byte](opts.CacheSize, opts.CacheTTL),
		cacheManager:     cache.NewManager(),
		securityDetector: security.NewDetector(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.WritesPerMinute,
			CleanupInterval:   5 * time.Minute,
		}),
		logger:     logger,
		appMetrics: newAppMetrics(),
	}
	s.traceMiddleware = trace.NewMiddleware(s.securityDetector.ExtractClientIP)

	s.cacheManager.Register(s.scoreCache)
	s.cacheManager.StartCleanup(5 * time.Minute)

	mux := http.NewServeMux()
	s.routes(mux)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/chores", s.handleListChores)
	mux.HandleFunc("POST /api/chores", s.handleCreateChore)
	mux.HandleFunc("GET /api/chores/{id}", s.handleGetChore)
	mux.HandleFunc("PATCH /api/chores/{id}", s.handleUpdateChore)
	mux.HandleFunc("DELETE /api/chores/{id}", s.handleDeleteChore)

	mux.HandleFunc("GET /api/logs", s.handleListLogs)
	mux.HandleFunc("POST /api/logs", s.handleCreateLog)
	mux.HandleFunc("DELETE /api/logs/{id}", s.handleDeleteLog)

	mux.HandleFunc("GET /api/scores/daily", s.handleDailyScore)
	mux.HandleFunc("GET /api/scores/weekly", s.handleWeeklyScores)
	mux.HandleFunc("GET /api/scores/monthly", s.handleMonthlyScores)
	mux.HandleFunc("GET /api/scores/total", s.handleTotalScores)
	mux.HandleFunc("GET /api/scores/series", s.handleSeries)
	mux.HandleFunc("GET /api/overview", s.handleOverview)
}

// middleware wraps h, outermost first: tracing, request logger, security
// headers, suspicious request detection, write rate limiting.
func (s *Server) middleware(h http.Handler) http.Handler {
	h = s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.handleRateLimited,
		http.MethodPost, http.MethodPatch, http.MethodDelete)(h)
	h = s.securityDetector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = applog.RequestIDMiddleware(func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	})(h)
	h = applog.Middleware(s.logger)(h)
	return s.traceMiddleware.Middleware(h)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
}

// Shutdown stops background cleanup and gracefully shuts down the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// invalidateScores drops every cached score after a write. It must run
// after the write is visible in the store.
func (s *Server) invalidateScores() {
	s.scoreGen.Add(1)
	s.scoreCache.Purge()
}
