// Package web serves the local web front end: shareable results URLs, the
// recent-search list and favorites over JSON.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"thoreinstein.com/skinscout/pkg/api"
	"thoreinstein.com/skinscout/pkg/recent"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	RateLimit   float64 // requests per second per client; 0 disables limiting
	RateBurst   int
	CORSOrigins []string // empty disables CORS headers
}

// Server is the local web front end.
type Server struct {
	searcher  api.Searcher
	recent    *recent.Store
	favorites *recent.Favorites
	logger    *slog.Logger
	router    *gin.Engine
}

// NewServer wires the routes. The caller owns the searcher and stores.
func NewServer(searcher api.Searcher, store *recent.Store, favorites *recent.Favorites, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))
	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: opts.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
			MaxAge:       12 * time.Hour,
		}))
	}
	if opts.RateLimit > 0 {
		router.Use(NewIPRateLimiter(opts.RateLimit, opts.RateBurst, logger).RateLimit())
	}

	s := &Server{
		searcher:  searcher,
		recent:    store,
		favorites: favorites,
		logger:    logger,
		router:    router,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/results", s.handleResults)

	apiGroup := s.router.Group("/api")
	{
		apiGroup.GET("/url", s.handleURL)
		apiGroup.GET("/recent", s.handleListRecent)
		apiGroup.DELETE("/recent", s.handleClearRecent)
		apiGroup.GET("/favorites", s.handleListFavorites)
		apiGroup.POST("/favorites/:name", s.handleToggleFavorite)
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web front end listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrapf(err, "failed to serve on %s", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shut down web front end")
	}
	return nil
}
