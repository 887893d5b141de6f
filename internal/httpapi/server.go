// Package httpapi exposes the ledger over HTTP for the kitchen dashboard.
// All routes except login require a bearer token from POST /api/login.
package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/larder/internal/planner"
	"github.com/mesh-intelligence/larder/internal/session"
	"github.com/mesh-intelligence/larder/internal/vision"
	"github.com/mesh-intelligence/larder/pkg/reconcile"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// Server wires the store, engine, and AI clients behind a gin router.
type Server struct {
	store    types.Store
	engine   *reconcile.Engine
	sessions *session.Manager
	planner  planner.Source
	scanner  vision.Scanner
	logger   *slog.Logger
}

// Options carries the optional collaborators. Planner and Scanner may be
// nil; their routes then answer 503.
type Options struct {
	Planner planner.Source
	Scanner vision.Scanner
	Logger  *slog.Logger
}

// NewServer creates the API server over an attached store.
func NewServer(store types.Store, sessions *session.Manager, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:    store,
		engine:   reconcile.NewEngine(store),
		sessions: sessions,
		planner:  opts.Planner,
		scanner:  opts.Scanner,
		logger:   logger,
	}
}

// Router builds the route table.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.POST("/login", s.loginHandler())

	authed := api.Group("")
	authed.Use(s.requireSession())
	authed.POST("/logout", s.logoutHandler())
	authed.GET("/items", s.listItemsHandler())
	authed.POST("/items", s.createItemHandler())
	authed.GET("/stock", s.listStockHandler())
	authed.GET("/movements", s.listMovementsHandler())
	authed.POST("/adjustments", s.adjustHandler())
	authed.POST("/reconcile", s.reconcileHandler())
	authed.POST("/plan", s.planHandler())
	authed.POST("/scan", s.scanHandler())

	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

// requireSession resolves the bearer token and stores the session in the
// gin context under "session".
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		sess, err := s.sessions.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}
		c.Set("session", sess)
		c.Next()
	}
}
