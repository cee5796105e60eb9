package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Shreevatsatg/FlowTrace/internal/db"
)

// Config carries the transport-level settings the router needs. Values
// come from environment variables read in main.
type Config struct {
	AllowedOrigins []string // empty means allow all
	MaxUploadBytes int64
}

// APIHandler bundles the collaborators the HTTP handlers depend on. The
// store may be nil when no database is configured; analysis still works,
// only the history endpoint degrades.
type APIHandler struct {
	store          *db.Store
	hub            *Hub
	maxUploadBytes int64
}

// SetupRouter wires middleware and routes. The analyze endpoint is rate
// limited per IP — a single upload costs a full graph search, so one
// misbehaving client must not be able to queue dozens of them.
func SetupRouter(store *db.Store, hub *Hub, cfg Config) *gin.Engine {
	r := gin.Default()

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"X-Analysis-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		// Wildcard origins cannot be combined with credentials.
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	handler := &APIHandler{store: store, hub: hub, maxUploadBytes: cfg.MaxUploadBytes}
	limiter := NewRateLimiter(30, 10)

	api := r.Group("/api/v1")
	{
		api.GET("/health", handler.handleHealth)
		api.POST("/analyze", limiter.Middleware(), handler.handleAnalyze)
		api.GET("/analyses", handler.handleListAnalyses)
		api.GET("/stream", hub.Subscribe)
	}

	return r
}
