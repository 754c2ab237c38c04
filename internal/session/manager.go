// Package session governs the lifetime of ephemeral server-side session
// records (upload and reading sessions) stored in the tiered cache.
//
// Each session moves through Active -> Idle -> Expired. Activity (Touch)
// rewrites the record under the long active TTL; MarkIdle rewrites it under
// the short idle TTL. Expiry is the cache's business: an expired session is
// indistinguishable from one that never existed.
package session

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/pagekeeper/internal/cache"
	"github.com/mrlokans/pagekeeper/internal/entities"
)

// Manager creates, refreshes and ends session records.
type Manager struct {
	cache     *cache.TieredCache
	activeTTL time.Duration
	idleTTL   time.Duration
	now       func() time.Time
}

// NewManager creates a session manager with the given TTL regimes.
func NewManager(tc *cache.TieredCache, activeTTL, idleTTL time.Duration) *Manager {
	return &Manager{
		cache:     tc,
		activeTTL: activeTTL,
		idleTTL:   idleTTL,
		now:       time.Now,
	}
}

// Create stores a new session record in the Active regime and returns it.
func (m *Manager) Create(userID string, kind entities.SessionKind, data map[string]string) (*entities.SessionRecord, error) {
	now := m.now().UTC()
	record := &entities.SessionRecord{
		ID:         uuid.NewString(),
		UserID:     userID,
		Kind:       kind,
		Data:       data,
		CreatedAt:  now,
		LastActive: now,
	}

	if err := m.write(record, m.activeTTL); err != nil {
		return nil, err
	}
	return record, nil
}

// Get returns the session record, or nil if it is absent or expired.
func (m *Manager) Get(sessionID string) *entities.SessionRecord {
	payload, ok := m.cache.Get(cache.SessionKey(sessionID))
	if !ok {
		return nil
	}

	var record entities.SessionRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		// A corrupt record is as good as absent.
		m.cache.Delete(cache.SessionKey(sessionID))
		return nil
	}
	return &record
}

// Touch refreshes the session under the active TTL. Touching an absent or
// expired session is a no-op: expired sessions are never resurrected.
func (m *Manager) Touch(sessionID string) *entities.SessionRecord {
	record := m.Get(sessionID)
	if record == nil {
		return nil
	}

	record.LastActive = m.now().UTC()
	if err := m.write(record, m.activeTTL); err != nil {
		return nil
	}
	return record
}

// MarkIdle rewrites the session under the shorter idle TTL. The transition
// is one-way from the caller's perspective: nothing here promotes an idle
// session back to active, only an explicit Touch does.
func (m *Manager) MarkIdle(sessionID string) {
	record := m.Get(sessionID)
	if record == nil {
		return
	}
	_ = m.write(record, m.idleTTL)
}

// End deletes the session, bypassing TTL.
func (m *Manager) End(sessionID string) {
	m.cache.Delete(cache.SessionKey(sessionID))
}

func (m *Manager) write(record *entities.SessionRecord, ttl time.Duration) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	m.cache.Set(cache.SessionKey(record.ID), payload, ttl)
	return nil
}
