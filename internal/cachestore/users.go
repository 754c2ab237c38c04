// Package cachestore holds the server-side state of the subsystem: user
// records and per-user progress, all stored through the tiered cache so
// the sync boundary survives the primary store going away.
package cachestore

import (
	"encoding/json"
	"time"

	"github.com/mrlokans/pagekeeper/internal/cache"
	"github.com/mrlokans/pagekeeper/internal/entities"
)

// Users stores account records behind user:{email} and user:id:{id} keys.
// Both keys carry the same record; writes refresh both.
type Users struct {
	cache *cache.TieredCache
	ttl   time.Duration
}

// NewUsers creates the user store with the given record TTL.
func NewUsers(tc *cache.TieredCache, ttl time.Duration) *Users {
	return &Users{cache: tc, ttl: ttl}
}

// Save writes the record under both lookup keys.
func (u *Users) Save(user *entities.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	u.cache.Set(cache.UserKey(user.Email), payload, u.ttl)
	u.cache.Set(cache.UserIDKey(user.ID), payload, u.ttl)
	return nil
}

// GetByEmail returns the account record, or nil when absent.
func (u *Users) GetByEmail(email string) *entities.User {
	return u.decode(u.cache.Get(cache.UserKey(email)))
}

// GetByID returns the account record, or nil when absent.
func (u *Users) GetByID(userID string) *entities.User {
	return u.decode(u.cache.Get(cache.UserIDKey(userID)))
}

// Delete removes both lookup keys for the record.
func (u *Users) Delete(user *entities.User) {
	u.cache.Delete(cache.UserKey(user.Email))
	u.cache.Delete(cache.UserIDKey(user.ID))
}

func (u *Users) decode(payload []byte, ok bool) *entities.User {
	if !ok {
		return nil
	}
	var user entities.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil
	}
	return &user
}
