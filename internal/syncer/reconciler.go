// Package syncer reconciles the device-local progress set with the remote
// sync boundary: pull-and-merge with a last-writer-wins rule on the
// per-record LastRead timestamp, plus best-effort pushes under independent
// per-instance throttles for single-record and full-set sends.
//
// Sync never gets in the way of reading. The durable local write has
// already happened by the time any of these methods run; remote failures
// are logged and dropped, and the next natural trigger (page turn, login)
// tries again.
package syncer

import (
	"context"
	"log"
	"time"

	"github.com/mrlokans/pagekeeper/internal/entities"
	"github.com/mrlokans/pagekeeper/internal/localstore"
)

// Reconciler merges remote progress into the local store and pushes local
// changes back. One instance per authenticated session. Single-record and
// full-set pushes are throttled independently: a page-turn push does not
// delay the next full resync, and vice versa.
type Reconciler struct {
	store        *localstore.Store
	client       RemoteClient
	throttle     *Throttle // single-record pushes
	bulkThrottle *Throttle // full-set pushes
}

// NewReconciler creates a reconciler over the given store and sync client.
// A zero pushInterval disables both throttles.
func NewReconciler(store *localstore.Store, client RemoteClient, pushInterval time.Duration) *Reconciler {
	return &Reconciler{
		store:        store,
		client:       client,
		throttle:     NewThrottle(pushInterval),
		bulkThrottle: NewThrottle(pushInterval),
	}
}

// PullAndMerge fetches the remote progress set and adopts every record
// that is strictly newer than the local one (or has no local counterpart).
// The winning record replaces the loser wholesale, bookmarks included;
// there is no per-field merging. Local-only records are left alone, since
// pushing them is PushAll's job.
//
// Remote failures are swallowed; only a failed local write is returned.
func (r *Reconciler) PullAndMerge(ctx context.Context) (int, error) {
	remote, err := r.client.FetchProgress(ctx)
	if err != nil {
		log.Printf("Sync pull failed, keeping local state: %v", err)
		return 0, nil
	}

	adopted := 0
	for _, record := range remote {
		local, err := r.store.GetProgress(record.BookID)
		if err != nil {
			return adopted, err
		}

		if local != nil && !record.LastRead.After(local.LastRead) {
			continue
		}

		record := record
		if err := r.store.SaveProgress(&record); err != nil {
			return adopted, err
		}
		adopted++
	}

	if adopted > 0 {
		log.Printf("Sync pull adopted %d remote record(s)", adopted)
	}
	return adopted, nil
}

// PushAll sends the complete local progress set in one call. Used at full
// resync points: login, registration, reconnect after failure. Returns the
// count the server accepted; throttled calls and transport failures count
// as zero.
func (r *Reconciler) PushAll(ctx context.Context) int {
	if !r.bulkThrottle.Allow() {
		return 0
	}

	all, err := r.store.GetAllProgress()
	if err != nil {
		log.Printf("Sync push-all skipped, local read failed: %v", err)
		return 0
	}
	if len(all) == 0 {
		return 0
	}

	records := make([]entities.ProgressRecord, 0, len(all))
	for _, record := range all {
		records = append(records, record)
	}

	accepted, err := r.client.PushProgress(ctx, records)
	if err != nil {
		log.Printf("Sync push-all failed: %v", err)
		return 0
	}

	r.bulkThrottle.MarkSent()
	return accepted
}

// PushOne sends a single record, the common page-turn path. Returns false
// when the throttle suppressed the call or the push failed; callers treat
// false as expected and rely on a later push to carry the latest state.
func (r *Reconciler) PushOne(ctx context.Context, record entities.ProgressRecord) bool {
	if !r.throttle.Allow() {
		return false
	}

	if _, err := r.client.PushProgress(ctx, []entities.ProgressRecord{record}); err != nil {
		log.Printf("Sync push for %s failed: %v", record.BookID, err)
		return false
	}

	r.throttle.MarkSent()
	return true
}
