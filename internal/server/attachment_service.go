// file: internal/server/attachment_service.go
// version: 1.0.0
// guid: 4a5b8c1d-7e3f-4a6b-9c0d-2e3f4a5b6c7d

package server

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/notekeeper/internal/api"
	"github.com/jdfalk/notekeeper/internal/database"
	"github.com/jdfalk/notekeeper/internal/models"
	"github.com/jdfalk/notekeeper/internal/server/middleware"
	"github.com/jdfalk/notekeeper/internal/storage"
)

// uploadAttachment stores a raw file body against a note through the
// blob-store collaborator and records the attachment.
func (s *Server) uploadAttachment(c *gin.Context) {
	noteID := c.Param("id")
	if _, err := s.store.GetNoteByID(noteID); err == database.ErrNotFound {
		middleware.AbortWithError(c, api.NewNotFound("note", noteID))
		return
	} else if err != nil {
		s.fail(c, err)
		return
	}

	filename := sanitizeFilename(c.Query("filename"))
	if filename == "" {
		middleware.AbortWithError(c, api.NewValidationError("filename: is required", nil))
		return
	}

	data, err := c.GetRawData()
	if err != nil {
		// MaxBytesReader tripping mid-read surfaces here.
		middleware.AbortWithError(c, api.NewPayloadTooLarge(s.uploadLimitBytes))
		return
	}
	if len(data) == 0 {
		middleware.AbortWithError(c, api.NewInvalidRequest("empty upload body"))
		return
	}

	key := fmt.Sprintf("notes/%s/%s", noteID, filename)
	result, err := s.blobs.Put(key, data, storage.PutOptions{
		ContentType: c.ContentType(),
		Overwrite:   true,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	att, err := s.store.CreateAttachment(&models.Attachment{
		NoteID:   noteID,
		Filename: filename,
		Size:     int64(len(data)),
		URL:      result.URL,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.OK(att))
}

func (s *Server) listAttachments(c *gin.Context) {
	noteID := c.Param("id")
	if _, err := s.store.GetNoteByID(noteID); err == database.ErrNotFound {
		middleware.AbortWithError(c, api.NewNotFound("note", noteID))
		return
	} else if err != nil {
		s.fail(c, err)
		return
	}

	atts, err := s.store.GetAttachmentsByNoteID(noteID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.OK(atts))
}

// sanitizeFilename strips directories and rejects traversal.
func sanitizeFilename(name string) string {
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
