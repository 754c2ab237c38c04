// Package scheduler runs the server's periodic cache maintenance: sweeping
// expired entries out of the primary backing store and probing for a
// reconnect while the cache is degraded to its fallback tier.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/pagekeeper/internal/cache"
)

// MaintenanceScheduler owns the cron entry for cache upkeep.
type MaintenanceScheduler struct {
	cache   *cache.TieredCache
	backend *cache.BoltBackend

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewMaintenanceScheduler creates a scheduler over the given cache and its
// primary backend.
func NewMaintenanceScheduler(tc *cache.TieredCache, backend *cache.BoltBackend) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		cache:   tc,
		backend: backend,
		cron:    cron.New(),
	}
}

// Start schedules the maintenance job. The schedule accepts standard cron
// expressions plus the @every form.
func (s *MaintenanceScheduler) Start(ctx context.Context, schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(schedule, func() {
		s.runMaintenance()
	})
	if err != nil {
		return fmt.Errorf("invalid maintenance schedule '%s': %w", schedule, err)
	}
	s.entryID = entryID

	_, s.cancelFunc = context.WithCancel(ctx)
	s.cron.Start()
	s.isRunning = true

	log.Printf("Cache maintenance scheduled: %s", schedule)
	return nil
}

// Stop halts the scheduler, waiting for a running job to finish.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false

	log.Printf("Cache maintenance stopped")
}

// runMaintenance is one scheduled pass: probe for reconnect if degraded,
// then sweep expired entries from the primary.
func (s *MaintenanceScheduler) runMaintenance() {
	if !s.cache.Reachable() {
		if !s.cache.Reconnect() {
			// Primary still down; the fallback sweep inside the cache
			// keeps the degraded tier bounded.
			return
		}
	}

	evicted, err := s.backend.SweepExpired()
	if err != nil {
		log.Printf("Cache sweep failed: %v", err)
		return
	}
	if evicted > 0 {
		log.Printf("Cache sweep evicted %d expired entries", evicted)
	}
}
