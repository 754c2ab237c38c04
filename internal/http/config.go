package http

import (
	"github.com/mrlokans/pagekeeper/internal/cache"
	"github.com/mrlokans/pagekeeper/internal/cachestore"
	"github.com/mrlokans/pagekeeper/internal/session"
)

// RouterConfig carries the dependencies of the sync API boundary.
type RouterConfig struct {
	Cache    *cache.TieredCache
	Progress *cachestore.Progress
	Users    *cachestore.Users
	Sessions *session.Manager
	Version  string
}
