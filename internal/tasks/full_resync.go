package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/pagekeeper/internal/syncer"
)

// FullResyncTask runs a complete pull-merge-push cycle. Enqueued at full
// resync points: login, registration, reconnect after failure.
type FullResyncTask struct {
	Reason string `json:"reason,omitempty"`
}

// Config returns the queue configuration for full resync tasks.
func (t FullResyncTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "full_resync",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// FullResyncProcessor creates a processor function for FullResyncTask.
func FullResyncProcessor(reconciler *syncer.Reconciler) backlite.QueueProcessor[FullResyncTask] {
	return func(ctx context.Context, task FullResyncTask) error {
		adopted, err := reconciler.PullAndMerge(ctx)
		if err != nil {
			return fmt.Errorf("full resync merge: %w", err)
		}

		pushed := reconciler.PushAll(ctx)
		log.Printf("[SYNC] Full resync (%s): adopted %d, pushed %d", task.Reason, adopted, pushed)
		return nil
	}
}

// NewFullResyncQueue creates a backlite queue for full resync tasks.
func NewFullResyncQueue(reconciler *syncer.Reconciler) backlite.Queue {
	return backlite.NewQueue(FullResyncProcessor(reconciler))
}
