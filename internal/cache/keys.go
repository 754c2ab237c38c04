package cache

import "strings"

// Cache key namespaces. Namespacing is a caller convention; the cache
// itself treats keys as opaque strings.
const (
	// PrefixBook is the prefix for cached book metadata (book:{id})
	PrefixBook = "book:"

	// PrefixSearch is the prefix for cached search pages (search:{normalizedQuery})
	PrefixSearch = "search:"

	// PrefixSession is the prefix for upload/reading session records (session:{id})
	PrefixSession = "session:"

	// PrefixUser is the prefix for account records (user:{email}, user:id:{id})
	PrefixUser = "user:"

	// PrefixProgress is the prefix for single-device progress (progress:{bookId})
	PrefixProgress = "progress:"
)

// BookKey returns the cache key for a book's metadata.
func BookKey(bookID string) string {
	return PrefixBook + bookID
}

// SearchKey returns the cache key for a search-result page. The query is
// normalized so equivalent searches share one entry.
func SearchKey(query string) string {
	return PrefixSearch + strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// SessionKey returns the cache key for a session record.
func SessionKey(sessionID string) string {
	return PrefixSession + sessionID
}

// UserKey returns the cache key for an account record looked up by email.
func UserKey(email string) string {
	return PrefixUser + strings.ToLower(email)
}

// UserIDKey returns the cache key for an account record looked up by id.
func UserIDKey(userID string) string {
	return PrefixUser + "id:" + userID
}

// ProgressKey returns the cache key for the single-device (unauthenticated)
// progress record of a book.
func ProgressKey(bookID string) string {
	return PrefixProgress + bookID
}

// UserProgressKey returns the cache key for one user's progress in one book.
func UserProgressKey(userID, bookID string) string {
	return PrefixUser + userID + ":progress:" + bookID
}

// UserProgressIndexKey returns the cache key holding the set of bookIds a
// user has progress records for. The cache has no scan operation, so the
// server maintains this index next to the per-book keys.
func UserProgressIndexKey(userID string) string {
	return PrefixUser + userID + ":progress:index"
}
