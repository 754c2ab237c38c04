package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/pagekeeper/internal/auth"
	"github.com/mrlokans/pagekeeper/internal/cachestore"
)

// AccountController returns the authenticated user's account record.
type AccountController struct {
	users *cachestore.Users
}

func NewAccountController(users *cachestore.Users) *AccountController {
	return &AccountController{users: users}
}

// Me returns the account record behind the session, 404 when the record
// has expired out of the cache.
func (a *AccountController) Me(c *gin.Context) {
	user := a.users.GetByID(auth.UserID(c))
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account record not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}
