// file: internal/server/server.go
// version: 1.0.0
// guid: 6c7d0e3f-9a5b-4c8d-1e2f-4a5b6c7d8e9f

package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jdfalk/notekeeper/internal/cache"
	"github.com/jdfalk/notekeeper/internal/config"
	"github.com/jdfalk/notekeeper/internal/database"
	"github.com/jdfalk/notekeeper/internal/metrics"
	"github.com/jdfalk/notekeeper/internal/models"
	"github.com/jdfalk/notekeeper/internal/ratelimit"
	"github.com/jdfalk/notekeeper/internal/server/middleware"
	"github.com/jdfalk/notekeeper/internal/storage"
)

const ctxProfileKey = "rate_limit_profile"

// Server owns the HTTP pipeline and its shared state: the store, the
// blob store, the rate-limiter window map and the per-resource caches.
// Everything is constructed here; nothing is a package-level singleton.
type Server struct {
	cfg        config.Config
	router     *gin.Engine
	httpServer *http.Server

	store database.Store
	blobs storage.BlobStore

	limiter  *ratelimit.MemoryStore
	policies map[ratelimit.Profile]ratelimit.Policy

	notePages      *cache.Cache[notePage]
	collectionList *cache.Cache[[]models.Collection]

	uploadLimitBytes int64
	startedAt        time.Time
	stopJanitors     []func()
}

// NewServer wires the full request pipeline. Background janitors for the
// caches and the limiter start immediately; Close releases them.
func NewServer(cfg config.Config, store database.Store, blobs storage.BlobStore) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.Register()

	s := &Server{
		cfg:              cfg,
		router:           gin.New(),
		store:            store,
		blobs:            blobs,
		limiter:          ratelimit.NewMemoryStore(),
		policies:         ratelimit.DefaultPolicies(),
		notePages:        cache.New[notePage](cfg.NoteCacheTTL),
		collectionList:   cache.New[[]models.Collection](cfg.CollectionCacheTTL),
		uploadLimitBytes: cfg.UploadBodyLimitBytes,
		startedAt:        time.Now(),
	}

	s.stopJanitors = append(s.stopJanitors,
		s.notePages.StartJanitor(cfg.CacheSweepInterval),
		s.collectionList.StartJanitor(cfg.CacheSweepInterval),
		s.limiter.StartJanitor(cfg.LimitSweepInterval),
	)

	s.setupRoutes()
	return s
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRoutes applies the fixed stage order. CORS (with its OPTIONS
// short-circuit) runs before the size check; the size check runs before
// rate limiting only in registration order — rate limiting is per-route,
// so an oversized body is rejected before any quota is spent parsing it,
// and a pre-flight never reaches the limiter at all.
func (s *Server) setupRoutes() {
	production := s.cfg.IsProduction()

	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.CORS(s.cfg.CORSAllowOrigin))
	s.router.Use(trackRequests())
	s.router.Use(middleware.ErrorNormalizer(production))
	s.router.Use(middleware.MaxRequestBodySize(s.cfg.JSONBodyLimitBytes, s.cfg.UploadBodyLimitBytes))

	s.router.GET("/health", s.limited(ratelimit.ProfileMetadata), s.healthCheck)
	s.router.GET("/metrics", s.limited(ratelimit.ProfileMetadata), gin.WrapH(promhttp.Handler()))
	if s.cfg.BlobDir != "" {
		s.router.Static("/files", s.cfg.BlobDir)
	}

	api := s.router.Group("/api/v1")
	{
		api.GET("/notes", s.limited(ratelimit.ProfileRead), s.listNotes)
		api.GET("/notes/:id", s.limited(ratelimit.ProfileRead), s.getNote)
		api.GET("/search", s.limited(ratelimit.ProfileRead), s.searchNotes)
		api.POST("/notes", s.limited(ratelimit.ProfileWrite), s.createNote)
		api.PUT("/notes/:id", s.limited(ratelimit.ProfileWrite), s.updateNote)
		api.DELETE("/notes/:id", s.limited(ratelimit.ProfileWrite), s.deleteNote)

		api.GET("/notes/:id/attachments", s.limited(ratelimit.ProfileRead), s.listAttachments)
		api.POST("/notes/:id/attachments", s.limited(ratelimit.ProfileUpload), s.uploadAttachment)

		api.GET("/collections", s.limited(ratelimit.ProfileRead), s.listCollections)
		api.GET("/collections/:id", s.limited(ratelimit.ProfileRead), s.getCollection)
		api.POST("/collections", s.limited(ratelimit.ProfileWrite), s.createCollection)
		api.PUT("/collections/:id", s.limited(ratelimit.ProfileWrite), s.updateCollection)
		api.DELETE("/collections/:id", s.limited(ratelimit.ProfileWrite), s.deleteCollection)

		api.GET("/stats", s.limited(ratelimit.ProfileMetadata), s.stats)
		api.POST("/admin/cache/purge", s.limited(ratelimit.ProfileSensitive), s.purgeCaches)
	}
}

// limited returns the rate-limit stage for one profile and records the
// profile for request metrics.
func (s *Server) limited(profile ratelimit.Profile) gin.HandlerFunc {
	rl := middleware.RateLimit(s.limiter, profile, s.policies[profile], middleware.RateLimitOptions{
		Production: s.cfg.IsProduction(),
		PerUser:    s.cfg.PerUserRateLimiting,
	})
	return func(c *gin.Context) {
		c.Set(ctxProfileKey, string(profile))
		rl(c)
	}
}

// trackRequests counts finished requests by profile and status class.
// It sits outside the error normalizer so the final status is visible.
func trackRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		profile := c.GetString(ctxProfileKey)
		if profile == "" {
			profile = "none"
		}
		metrics.IncRequest(profile, statusClass(c.Writer.Status()))
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// fail raises an undeclared failure; the normalizer turns it into
// INTERNAL_ERROR with production redaction.
func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Start begins serving. Transport timeouts live here, not in the
// pipeline.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:           fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port),
		Handler:        s.router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	log.Printf("Starting server on %s (mode=%s)", s.httpServer.Addr, s.cfg.Mode)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts down the HTTP server and releases the janitors.
func (s *Server) Stop(ctx context.Context) error {
	s.Close()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Close releases background janitors without touching the HTTP listener.
// Safe to call more than once.
func (s *Server) Close() {
	for _, stop := range s.stopJanitors {
		stop()
	}
	s.stopJanitors = nil
}
