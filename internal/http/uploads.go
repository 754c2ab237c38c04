package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/pagekeeper/internal/auth"
	"github.com/mrlokans/pagekeeper/internal/entities"
	"github.com/mrlokans/pagekeeper/internal/session"
)

// UploadsController exposes the upload-session lifecycle: create under the
// active TTL, touch on activity, mark idle when the client backgrounds,
// delete on completion.
type UploadsController struct {
	sessions *session.Manager
}

func NewUploadsController(sessions *session.Manager) *UploadsController {
	return &UploadsController{sessions: sessions}
}

type createUploadRequest struct {
	Filename string `json:"filename"`
}

// Create starts a new upload session for the authenticated user.
func (u *UploadsController) Create(c *gin.Context) {
	var payload createUploadRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload payload"})
		return
	}

	var data map[string]string
	if payload.Filename != "" {
		data = map[string]string{"filename": payload.Filename}
	}

	record, err := u.sessions.Create(auth.UserID(c), entities.SessionKindUpload, data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create upload session"})
		return
	}
	c.JSON(http.StatusCreated, record)
}

// Touch refreshes the session under the active TTL. An expired session is
// gone for good: the client starts a new upload.
func (u *UploadsController) Touch(c *gin.Context) {
	record := u.sessions.Touch(c.Param("id"))
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown upload session"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// MarkIdle shortens the session's remaining lifetime. Idling an absent
// session is not an error.
func (u *UploadsController) MarkIdle(c *gin.Context) {
	u.sessions.MarkIdle(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// End deletes the session immediately.
func (u *UploadsController) End(c *gin.Context) {
	u.sessions.End(c.Param("id"))
	c.Status(http.StatusNoContent)
}
