package cachestore

import (
	"encoding/json"
	"time"

	"github.com/mrlokans/pagekeeper/internal/cache"
	"github.com/mrlokans/pagekeeper/internal/entities"
)

// Progress stores the authoritative per-user progress set, one cache entry
// per (user, book) plus an index entry listing the user's bookIds. The
// cache has no scan, so the index is maintained on every upsert.
type Progress struct {
	cache     *cache.TieredCache
	userTTL   time.Duration // user:{id}:progress:{bookId} entries
	deviceTTL time.Duration // progress:{bookId} (no-auth single-device path)
}

// NewProgress creates the progress store with the TTL classes of its two
// key namespaces.
func NewProgress(tc *cache.TieredCache, userTTL, deviceTTL time.Duration) *Progress {
	return &Progress{cache: tc, userTTL: userTTL, deviceTTL: deviceTTL}
}

// GetAll returns the user's full progress set.
func (p *Progress) GetAll(userID string) []entities.ProgressRecord {
	records := make([]entities.ProgressRecord, 0)
	for _, bookID := range p.index(userID) {
		if record := p.Get(userID, bookID); record != nil {
			records = append(records, *record)
		}
	}
	return records
}

// Get returns one progress record, or nil when absent or expired.
func (p *Progress) Get(userID, bookID string) *entities.ProgressRecord {
	return decodeRecord(p.cache.Get(cache.UserProgressKey(userID, bookID)))
}

// Upsert stores each record by bookId, keeping the percentage derived and
// the index current, and returns the count accepted.
func (p *Progress) Upsert(userID string, records []entities.ProgressRecord) int {
	accepted := 0
	index := p.index(userID)
	indexed := make(map[string]bool, len(index))
	for _, bookID := range index {
		indexed[bookID] = true
	}

	for _, record := range records {
		if record.BookID == "" {
			continue
		}
		record.DerivePercentage()

		payload, err := json.Marshal(record)
		if err != nil {
			continue
		}
		p.cache.Set(cache.UserProgressKey(userID, record.BookID), payload, p.userTTL)
		accepted++

		if !indexed[record.BookID] {
			indexed[record.BookID] = true
			index = append(index, record.BookID)
		}
	}

	if accepted > 0 {
		p.writeIndex(userID, index)
	}
	return accepted
}

// GetDevice returns the single-device (unauthenticated) progress record
// for a book.
func (p *Progress) GetDevice(bookID string) *entities.ProgressRecord {
	return decodeRecord(p.cache.Get(cache.ProgressKey(bookID)))
}

// PutDevice stores the single-device progress record for a book.
func (p *Progress) PutDevice(record entities.ProgressRecord) error {
	record.DerivePercentage()
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	p.cache.Set(cache.ProgressKey(record.BookID), payload, p.deviceTTL)
	return nil
}

func (p *Progress) index(userID string) []string {
	payload, ok := p.cache.Get(cache.UserProgressIndexKey(userID))
	if !ok {
		return nil
	}
	var bookIDs []string
	if err := json.Unmarshal(payload, &bookIDs); err != nil {
		return nil
	}
	return bookIDs
}

func (p *Progress) writeIndex(userID string, bookIDs []string) {
	payload, err := json.Marshal(bookIDs)
	if err != nil {
		return
	}
	p.cache.Set(cache.UserProgressIndexKey(userID), payload, p.userTTL)
}

func decodeRecord(payload []byte, ok bool) *entities.ProgressRecord {
	if !ok {
		return nil
	}
	var record entities.ProgressRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil
	}
	return &record
}
