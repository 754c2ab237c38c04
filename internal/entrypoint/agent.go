package entrypoint

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/pagekeeper/internal/config"
	"github.com/mrlokans/pagekeeper/internal/localstore"
	"github.com/mrlokans/pagekeeper/internal/syncer"
	"github.com/mrlokans/pagekeeper/internal/tasks"
)

// RunAgent starts the device-side sync agent: a durable task queue that
// drains progress pushes and full resync cycles until SIGINT/SIGTERM.
func RunAgent(cfg *config.Config, version string) {
	log.Printf("Starting PageKeeper agent v%s", version)

	store, err := localstore.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open local database: %v", err)
	}
	defer store.Close()

	remote := syncer.NewClient(cfg.Sync.ServerURL, cfg.Sync.Token)
	reconciler := syncer.NewReconciler(store, remote, cfg.Sync.PushInterval)

	taskCfg := tasks.Config{
		Workers:           cfg.Tasks.Workers,
		MaxRetries:        cfg.Tasks.MaxRetries,
		RetryDelay:        cfg.Tasks.RetryDelay,
		TaskTimeout:       cfg.Tasks.TaskTimeout,
		ReleaseAfter:      cfg.Tasks.ReleaseAfter,
		CleanupInterval:   cfg.Tasks.CleanupInterval,
		RetentionDuration: cfg.Tasks.RetentionDuration,
	}
	taskClient, err := tasks.NewClient(cfg.Database.Path, taskCfg)
	if err != nil {
		log.Fatalf("Failed to create sync queue: %v", err)
	}
	defer taskClient.Close()

	taskClient.Register(
		tasks.NewPushProgressQueue(store, reconciler),
		tasks.NewFullResyncQueue(reconciler),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	taskClient.Start(ctx)

	// Startup is a full resync point.
	if _, err := taskClient.Add(tasks.FullResyncTask{Reason: "startup"}).Save(); err != nil {
		log.Printf("Failed to enqueue startup resync: %v", err)
	}

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Sync.ResyncSchedule, func() {
		if _, err := taskClient.Add(tasks.FullResyncTask{Reason: "scheduled"}).Save(); err != nil {
			log.Printf("Failed to enqueue scheduled resync: %v", err)
		}
	})
	if err != nil {
		log.Printf("WARNING: periodic resync not scheduled: %v", err)
	} else {
		scheduler.Start()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	log.Printf("Shutdown agent, waiting %v before killing\n", timeout)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	<-scheduler.Stop().Done()
	taskClient.Stop(shutdownCtx)

	log.Println("Agent exiting")
}
