// file: internal/server/collection_service.go
// version: 1.0.0
// guid: 3f4a7b0c-6d2e-4f5a-8b9c-1d2e3f4a5b6c

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/notekeeper/internal/api"
	"github.com/jdfalk/notekeeper/internal/database"
	"github.com/jdfalk/notekeeper/internal/metrics"
	"github.com/jdfalk/notekeeper/internal/models"
	"github.com/jdfalk/notekeeper/internal/server/middleware"
)

const collectionsCacheKey = "all"

func (s *Server) listCollections(c *gin.Context) {
	if cached, ok := s.collectionList.Get(collectionsCacheKey); ok {
		metrics.IncCacheHit("collections")
		c.JSON(http.StatusOK, api.OK(cached))
		return
	}
	metrics.IncCacheMiss("collections")

	cols, err := s.store.GetAllCollections()
	if err != nil {
		s.fail(c, err)
		return
	}
	s.collectionList.Set(collectionsCacheKey, cols)
	c.JSON(http.StatusOK, api.OK(cols))
}

func (s *Server) getCollection(c *gin.Context) {
	id := c.Param("id")
	col, err := s.store.GetCollectionByID(id)
	if err == database.ErrNotFound {
		middleware.AbortWithError(c, api.NewNotFound("collection", id))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	notes, err := s.store.GetNotesByCollectionID(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.OK(gin.H{"collection": col, "notes": notes}))
}

func (s *Server) createCollection(c *gin.Context) {
	req, apiErr := BindJSON[CreateCollectionRequest](c)
	if apiErr != nil {
		middleware.AbortWithError(c, apiErr)
		return
	}

	col, err := s.store.CreateCollection(&models.Collection{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	s.collectionList.Invalidate(collectionsCacheKey)
	c.JSON(http.StatusCreated, api.OK(col))
}

func (s *Server) updateCollection(c *gin.Context) {
	id := c.Param("id")
	req, apiErr := BindJSON[UpdateCollectionRequest](c)
	if apiErr != nil {
		middleware.AbortWithError(c, apiErr)
		return
	}

	col, err := s.store.UpdateCollection(id, &models.Collection{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err == database.ErrNotFound {
		middleware.AbortWithError(c, api.NewNotFound("collection", id))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	s.collectionList.Invalidate(collectionsCacheKey)
	c.JSON(http.StatusOK, api.OK(col))
}

func (s *Server) deleteCollection(c *gin.Context) {
	id := c.Param("id")
	err := s.store.DeleteCollection(id)
	if err == database.ErrNotFound {
		middleware.AbortWithError(c, api.NewNotFound("collection", id))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	// Member notes were detached, so cached note pages are stale too.
	s.collectionList.Invalidate(collectionsCacheKey)
	s.notePages.InvalidateAll()
	c.JSON(http.StatusOK, api.OK(gin.H{"deleted": true, "id": id}))
}
