// file: internal/models/models.go
// version: 1.0.0
// guid: 1b2c5d8e-4f0a-4b3c-6e7f-9a0b1c2d3e4f

package models

import "time"

// Note is a single note document.
type Note struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	CollectionID string    `json:"collectionId,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Pinned       bool      `json:"pinned"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Collection groups notes.
type Collection struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Attachment records an uploaded file linked to a note.
type Attachment struct {
	ID        string    `json:"id"`
	NoteID    string    `json:"noteId"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}
