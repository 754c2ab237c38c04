package entities

import "time"

type SessionKind string

const (
	SessionKindReading SessionKind = "reading"
	SessionKindUpload  SessionKind = "upload"
)

// SessionRecord is the ephemeral server-side record behind a `session:{id}`
// cache key. Its remaining lifetime is governed entirely by the cache TTL
// under which it was last written; expiry leaves no tombstone.
type SessionRecord struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	Kind       SessionKind       `json:"kind"`
	Data       map[string]string `json:"data,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	LastActive time.Time         `json:"last_active"`
}
