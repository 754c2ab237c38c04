package syncer

import (
	"sync"
	"time"
)

// Throttle suppresses pushes that arrive sooner than interval after the
// previous successful push. State is owned by the reconciler instance it
// belongs to, one per authenticated session, so devices do not share
// backpressure.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	lastPush time.Time
	now      func() time.Time
}

// NewThrottle creates a throttle with the given minimum gap.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval, now: time.Now}
}

// Allow reports whether enough time has passed since the last recorded
// push. It does not record anything itself.
func (t *Throttle) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now().Sub(t.lastPush) >= t.interval
}

// MarkSent records a successful push. Failed pushes are not recorded, so
// the next attempt is not penalized.
func (t *Throttle) MarkSent() {
	t.mu.Lock()
	t.lastPush = t.now()
	t.mu.Unlock()
}
