package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/pagekeeper/internal/cache"
	"github.com/mrlokans/pagekeeper/internal/cachestore"
	"github.com/mrlokans/pagekeeper/internal/config"
	http_controllers "github.com/mrlokans/pagekeeper/internal/http"
	"github.com/mrlokans/pagekeeper/internal/scheduler"
	"github.com/mrlokans/pagekeeper/internal/session"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down within
// the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener goes away
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the server-side subsystem together and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting PageKeeper v%s", version)

	// A broken primary store is not fatal: the cache starts degraded and
	// the maintenance job keeps probing for a reconnect.
	backend, err := cache.NewBoltBackend(cfg.Cache.Path)
	if err != nil {
		log.Printf("WARNING: primary cache store unavailable, starting on fallback only: %v", err)
		backend = nil
	}

	var tieredCache *cache.TieredCache
	if backend != nil {
		tieredCache = cache.NewTieredCache(backend)
	} else {
		tieredCache = cache.NewTieredCache(nil)
	}

	sessions := session.NewManager(tieredCache, cfg.Session.ActiveTTL, cfg.Session.IdleTTL)
	progress := cachestore.NewProgress(tieredCache, cfg.Cache.UserProgressTTL, cfg.Cache.ProgressTTL)
	users := cachestore.NewUsers(tieredCache, cfg.Cache.UserTTL)

	var maintenance *scheduler.MaintenanceScheduler
	if backend != nil {
		maintenance = scheduler.NewMaintenanceScheduler(tieredCache, backend)
		if err := maintenance.Start(context.Background(), cfg.Cache.SweepSchedule); err != nil {
			log.Printf("WARNING: cache maintenance not scheduled: %v", err)
		}
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Cache:    tieredCache,
		Progress: progress,
		Users:    users,
		Sessions: sessions,
		Version:  version,
	})

	Serve(router, cfg, func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if err := tieredCache.Close(); err != nil {
			log.Printf("Failed to close cache: %v", err)
		}
	})
}
