package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/pagekeeper/internal/cachestore"
	"github.com/mrlokans/pagekeeper/internal/entities"
)

// DeviceProgressController serves the unauthenticated single-device
// progress path keyed by book alone.
type DeviceProgressController struct {
	progress *cachestore.Progress
}

func NewDeviceProgressController(progress *cachestore.Progress) *DeviceProgressController {
	return &DeviceProgressController{progress: progress}
}

type deviceProgressRequest struct {
	CurrentPage int          `json:"current_page" binding:"required,min=1"`
	TotalPages  int          `json:"total_pages" binding:"min=0"`
	LastRead    *time.Time   `json:"last_read"`
	Bookmarks   []entities.Bookmark `json:"bookmarks"`
}

// Get returns the stored record for a book, 404 when absent or expired.
func (d *DeviceProgressController) Get(c *gin.Context) {
	record := d.progress.GetDevice(c.Param("bookId"))
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no progress for book"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// Put stores the record for a book under the medium TTL.
func (d *DeviceProgressController) Put(c *gin.Context) {
	var payload deviceProgressRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid progress payload"})
		return
	}

	record := entities.ProgressRecord{
		BookID:      c.Param("bookId"),
		CurrentPage: payload.CurrentPage,
		TotalPages:  payload.TotalPages,
		Bookmarks:   payload.Bookmarks,
		LastRead:    time.Now().UTC(),
	}
	if payload.LastRead != nil {
		record.LastRead = *payload.LastRead
	}

	if err := d.progress.PutDevice(record); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store progress"})
		return
	}

	record.DerivePercentage()
	c.JSON(http.StatusOK, record)
}
