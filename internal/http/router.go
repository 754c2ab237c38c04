// Package http exposes the sync API boundary: the authenticated progress
// endpoints the reconciler consumes, the single-device progress path, the
// upload-session lifecycle and health.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/pagekeeper/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	healthController := NewHealthController(cfg.Cache, cfg.Version)
	router.GET("/health", healthController.Status)

	// Single-device progress: no credential, per-book keys, medium TTL
	deviceController := NewDeviceProgressController(cfg.Progress)
	router.GET("/api/progress/:bookId", deviceController.Get)
	router.PUT("/api/progress/:bookId", deviceController.Put)

	authMiddleware := auth.NewMiddleware(cfg.Sessions)
	api := router.Group("/api", authMiddleware.Handler())

	syncController := NewSyncController(cfg.Progress)
	api.GET("/sync/progress", syncController.GetProgress)
	api.POST("/sync/progress", syncController.PostProgress)

	accountController := NewAccountController(cfg.Users)
	api.GET("/me", accountController.Me)

	uploadsController := NewUploadsController(cfg.Sessions)
	api.POST("/uploads", uploadsController.Create)
	api.POST("/uploads/:id/touch", uploadsController.Touch)
	api.POST("/uploads/:id/idle", uploadsController.MarkIdle)
	api.DELETE("/uploads/:id", uploadsController.End)

	return router
}
