package config

// Default paths for on-disk state
const (
	// DefaultDatabasePath is the default path for the device-local store
	DefaultDatabasePath = "./pagekeeper.db"

	// DefaultCachePath is the default path for the server cache's primary backing store
	DefaultCachePath = "./pagekeeper-cache.db"
)
