// file: internal/server/requests.go
// version: 1.0.0
// guid: 1d2e5f8a-4b0c-4d3e-6f7a-9b0c1d2e3f4a

package server

// CreateNoteRequest is the declared schema for note creation.
type CreateNoteRequest struct {
	Title        string   `json:"title" binding:"required,min=1,max=200"`
	Content      string   `json:"content" binding:"max=100000"`
	CollectionID string   `json:"collectionId" binding:"omitempty,len=26"`
	Tags         []string `json:"tags" binding:"omitempty,max=32,dive,min=1,max=64"`
	Pinned       bool     `json:"pinned"`
}

// UpdateNoteRequest is the declared schema for note updates.
type UpdateNoteRequest struct {
	Title        string   `json:"title" binding:"required,min=1,max=200"`
	Content      string   `json:"content" binding:"max=100000"`
	CollectionID string   `json:"collectionId" binding:"omitempty,len=26"`
	Tags         []string `json:"tags" binding:"omitempty,max=32,dive,min=1,max=64"`
	Pinned       bool     `json:"pinned"`
}

// CreateCollectionRequest is the declared schema for collection creation.
type CreateCollectionRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
}

// UpdateCollectionRequest is the declared schema for collection updates.
type UpdateCollectionRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
}
