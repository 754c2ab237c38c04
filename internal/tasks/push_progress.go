package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/pagekeeper/internal/localstore"
	"github.com/mrlokans/pagekeeper/internal/syncer"
)

// PushProgressTask pushes a single book's latest progress to the sync
// boundary. Enqueued on page turns after the durable local write.
type PushProgressTask struct {
	BookID string `json:"book_id"`
}

// Config returns the queue configuration for progress push tasks.
// Sync is best-effort: a failed push is abandoned for this cycle, the next
// page turn enqueues a fresh one.
func (t PushProgressTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "push_progress",
		MaxAttempts: 1,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PushProgressProcessor creates a processor function for PushProgressTask.
func PushProgressProcessor(store *localstore.Store, reconciler *syncer.Reconciler) backlite.QueueProcessor[PushProgressTask] {
	return func(ctx context.Context, task PushProgressTask) error {
		record, err := store.GetProgress(task.BookID)
		if err != nil {
			return fmt.Errorf("read progress %s: %w", task.BookID, err)
		}
		if record == nil {
			// Progress was cleared between enqueue and processing.
			return nil
		}

		if reconciler.PushOne(ctx, *record) {
			log.Printf("[SYNC] Pushed progress for %s (page %d)", task.BookID, record.CurrentPage)
		}
		return nil
	}
}

// NewPushProgressQueue creates a backlite queue for progress push tasks.
func NewPushProgressQueue(store *localstore.Store, reconciler *syncer.Reconciler) backlite.Queue {
	return backlite.NewQueue(PushProgressProcessor(store, reconciler))
}
