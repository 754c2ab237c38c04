package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/pagekeeper/internal/auth"
	"github.com/mrlokans/pagekeeper/internal/cachestore"
	"github.com/mrlokans/pagekeeper/internal/entities"
)

// SyncController serves the authenticated progress-set endpoints the
// reconciler talks to.
type SyncController struct {
	progress *cachestore.Progress
}

func NewSyncController(progress *cachestore.Progress) *SyncController {
	return &SyncController{progress: progress}
}

type progressSetResponse struct {
	Progress []entities.ProgressRecord `json:"progress"`
	Count    int                       `json:"count"`
}

type pushRequest struct {
	Progress []entities.ProgressRecord `json:"progress"`
}

// GetProgress returns the user's full progress set.
func (s *SyncController) GetProgress(c *gin.Context) {
	records := s.progress.GetAll(auth.UserID(c))
	c.JSON(http.StatusOK, progressSetResponse{
		Progress: records,
		Count:    len(records),
	})
}

// PostProgress upserts the posted records by bookId and confirms the
// count accepted.
func (s *SyncController) PostProgress(c *gin.Context) {
	var payload pushRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid progress payload"})
		return
	}

	accepted := s.progress.Upsert(auth.UserID(c), payload.Progress)
	c.JSON(http.StatusOK, gin.H{"synced": accepted})
}
