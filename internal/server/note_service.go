// file: internal/server/note_service.go
// version: 1.0.0
// guid: 2e3f6a9b-5c1d-4e4f-7a8b-0c1d2e3f4a5b

package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/notekeeper/internal/api"
	"github.com/jdfalk/notekeeper/internal/database"
	"github.com/jdfalk/notekeeper/internal/metrics"
	"github.com/jdfalk/notekeeper/internal/models"
	"github.com/jdfalk/notekeeper/internal/server/middleware"
)

// notePage is the cached unit for list responses.
type notePage struct {
	Notes []models.Note
	Total int
}

func notePageKey(page, limit int) string {
	return fmt.Sprintf("page:%d:%d", page, limit)
}

func (s *Server) listNotes(c *gin.Context) {
	page, limit := parsePageParams(c)
	key := notePageKey(page, limit)

	if cached, ok := s.notePages.Get(key); ok {
		metrics.IncCacheHit("notes")
		c.JSON(http.StatusOK, api.Page(cached.Notes, api.NewPagination(page, limit, cached.Total)))
		return
	}
	metrics.IncCacheMiss("notes")

	total, err := s.store.CountNotes()
	if err != nil {
		s.fail(c, err)
		return
	}
	notes, err := s.store.GetAllNotes(limit, (page-1)*limit)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.notePages.Set(key, notePage{Notes: notes, Total: total})
	c.JSON(http.StatusOK, api.Page(notes, api.NewPagination(page, limit, total)))
}

func (s *Server) getNote(c *gin.Context) {
	id := c.Param("id")
	note, err := s.store.GetNoteByID(id)
	if err == database.ErrNotFound {
		middleware.AbortWithError(c, api.NewNotFound("note", id))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.OK(note))
}

func (s *Server) createNote(c *gin.Context) {
	req, apiErr := BindJSON[CreateNoteRequest](c)
	if apiErr != nil {
		middleware.AbortWithError(c, apiErr)
		return
	}

	if req.CollectionID != "" {
		if _, err := s.store.GetCollectionByID(req.CollectionID); err == database.ErrNotFound {
			middleware.AbortWithError(c, api.NewValidationError(
				"collectionId: collection does not exist", nil))
			return
		} else if err != nil {
			s.fail(c, err)
			return
		}
	}

	note, err := s.store.CreateNote(&models.Note{
		Title:        req.Title,
		Content:      req.Content,
		CollectionID: req.CollectionID,
		Tags:         req.Tags,
		Pinned:       req.Pinned,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	s.notePages.InvalidateAll()
	c.JSON(http.StatusCreated, api.OK(note))
}

func (s *Server) updateNote(c *gin.Context) {
	id := c.Param("id")
	req, apiErr := BindJSON[UpdateNoteRequest](c)
	if apiErr != nil {
		middleware.AbortWithError(c, apiErr)
		return
	}

	note, err := s.store.UpdateNote(id, &models.Note{
		Title:        req.Title,
		Content:      req.Content,
		CollectionID: req.CollectionID,
		Tags:         req.Tags,
		Pinned:       req.Pinned,
	})
	if err == database.ErrNotFound {
		middleware.AbortWithError(c, api.NewNotFound("note", id))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	s.notePages.InvalidateAll()
	c.JSON(http.StatusOK, api.OK(note))
}

// searchNotes filters by tags. Repeated tag parameters are coalesced
// into an ordered list and all must match.
func (s *Server) searchNotes(c *gin.Context) {
	query := QueryValues(c)

	var tags []string
	switch v := query["tag"].(type) {
	case string:
		tags = []string{v}
	case []string:
		tags = v
	}

	notes, err := s.store.GetAllNotes(0, 0)
	if err != nil {
		s.fail(c, err)
		return
	}

	matched := []models.Note{}
	for _, note := range notes {
		if hasAllTags(note.Tags, tags) {
			matched = append(matched, note)
		}
	}
	c.JSON(http.StatusOK, api.OK(matched))
}

func hasAllTags(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *Server) deleteNote(c *gin.Context) {
	id := c.Param("id")
	err := s.store.DeleteNote(id)
	if err == database.ErrNotFound {
		middleware.AbortWithError(c, api.NewNotFound("note", id))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	s.notePages.InvalidateAll()
	c.JSON(http.StatusOK, api.OK(gin.H{"deleted": true, "id": id}))
}
