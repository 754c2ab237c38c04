package cache

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketEntries = []byte("entries")

// Backend is the primary backing store of a TieredCache. Any error from a
// Backend operation marks the primary unreachable; the cache then serves
// the fallback tier until Ping succeeds again.
type Backend interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte, expiresAt time.Time) error
	Delete(key string) error
	Ping() error
	Close() error
}

// boltEntry is the on-disk envelope for a cache value.
type boltEntry struct {
	Value     []byte    `json:"v"`
	ExpiresAt time.Time `json:"exp"`
}

// BoltBackend stores cache entries in a single-bucket bolt database.
// Expired entries are dropped lazily on read and in bulk by SweepExpired.
type BoltBackend struct {
	db  *bolt.DB
	now func() time.Time
}

// NewBoltBackend opens (or creates) the backing store at path.
func NewBoltBackend(path string) (*BoltBackend, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEntries)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltBackend{db: db, now: time.Now}, nil
}

func (b *BoltBackend) Get(key string) ([]byte, bool, error) {
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketEntries).Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if data == nil {
		return nil, false, nil
	}

	var entry boltEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, err
	}

	if !entry.ExpiresAt.After(b.now()) {
		// Lazy expiry: drop the dead entry on the way out
		_ = b.Delete(key)
		return nil, false, nil
	}

	return entry.Value, true, nil
}

func (b *BoltBackend) Set(key string, value []byte, expiresAt time.Time) error {
	data, err := json.Marshal(boltEntry{Value: value, ExpiresAt: expiresAt})
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEntries).Put([]byte(key), data)
	})
}

func (b *BoltBackend) Delete(key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEntries).Delete([]byte(key))
	})
}

// Ping verifies the store is readable. Used by TieredCache.Reconnect.
func (b *BoltBackend) Ping() error {
	return b.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketEntries) == nil {
			return fmt.Errorf("cache bucket missing")
		}
		return nil
	})
}

// SweepExpired removes every entry whose expiry has passed and returns the
// number evicted. Invoked on a schedule by the maintenance scheduler.
func (b *BoltBackend) SweepExpired() (int, error) {
	now := b.now()
	evicted := 0
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketEntries)
		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var entry boltEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				continue
			}
			if !entry.ExpiresAt.After(now) {
				if err := c.Delete(); err != nil {
					return err
				}
				evicted++
			}
		}
		return nil
	})
	return evicted, err
}

func (b *BoltBackend) Close() error {
	return b.db.Close()
}
