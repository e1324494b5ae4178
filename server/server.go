package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"
	"github.com/rs/cors"

	"github.com/umputun/newstag/pkg/domain"
	"github.com/umputun/newstag/pkg/ingest"
	"github.com/umputun/newstag/pkg/store"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/feed.go -pkg mocks -skip-ensure -fmt goimports . FeedService
//go:generate moq -out mocks/articles.go -pkg mocks -skip-ensure -fmt goimports . ArticleStore
//go:generate moq -out mocks/tagger.go -pkg mocks -skip-ensure -fmt goimports . Tagger

// Server represents HTTP server instance
type Server struct {
	config   ConfigProvider
	feed     FeedService
	articles ArticleStore
	tagger   Tagger
	metrics  *Metrics
	cors     *cors.Cors // nil if no origins configured
	version  string
	debug    bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// FeedService serves a random article, populating the store on first use
type FeedService interface {
	RandomArticle(ctx context.Context) (domain.SelectedArticle, ingest.Path, error)
}

// ArticleStore looks up stored articles by id
type ArticleStore interface {
	GetByID(ctx context.Context, id int64) (store.Row, error)
}

// Tagger derives title and tags for article text
type Tagger interface {
	Generate(ctx context.Context, text string) domain.GeneratedMetadata
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetCORSOrigins() []string
}

// Deps is a set of services the server depends on
type Deps struct {
	Feed     FeedService
	Articles ArticleStore
	Tagger   Tagger
}

// New initializes a new server instance
func New(cfg ConfigProvider, deps Deps, version string, debug bool) *Server {
	s := &Server{
		config:   cfg,
		feed:     deps.Feed,
		articles: deps.Articles,
		tagger:   deps.Tagger,
		metrics:  NewMetrics(),
		version:  version,
		debug:    debug,
		router:   routegroup.New(http.NewServeMux()),
	}
	if origins := cfg.GetCORSOrigins(); len(origins) > 0 {
		s.cors = cors.New(cors.Options{AllowedOrigins: origins, AllowedMethods: []string{http.MethodGet, http.MethodOptions}})
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	lgr.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.lock.Lock()
		defer s.lock.Unlock()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("newstag", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
	if s.cors != nil {
		s.router.Use(s.cors.Handler)
	}
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /{$}", s.rootHandler)
	s.router.HandleFunc("GET /multinews", s.multinewsHandler)
	s.router.HandleFunc("GET /gentags/{id}", s.gentagsHandler)
	s.router.Handle("GET /metrics", s.metrics.Handler())

	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
	})
}
