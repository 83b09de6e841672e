// file: internal/database/store.go
// version: 1.0.0
// guid: 4e5f8a1b-7c3d-4e6f-9a0b-2c3d4e5f6a7b

package database

import (
	"errors"
	"fmt"

	"github.com/jdfalk/notekeeper/internal/models"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("not found")

// Store defines the interface for our database operations
// This abstraction allows us to support both PebbleDB (default) and SQLite3 (opt-in)
type Store interface {
	// Lifecycle
	Close() error

	// Notes
	GetAllNotes(limit, offset int) ([]models.Note, error)
	CountNotes() (int, error)
	GetNoteByID(id string) (*models.Note, error)
	GetNotesByCollectionID(collectionID string) ([]models.Note, error)
	CreateNote(note *models.Note) (*models.Note, error) // Generates ULID if ID is empty
	UpdateNote(id string, note *models.Note) (*models.Note, error)
	DeleteNote(id string) error

	// Collections
	GetAllCollections() ([]models.Collection, error)
	GetCollectionByID(id string) (*models.Collection, error)
	CreateCollection(col *models.Collection) (*models.Collection, error)
	UpdateCollection(id string, col *models.Collection) (*models.Collection, error)
	DeleteCollection(id string) error

	// Attachments
	CreateAttachment(att *models.Attachment) (*models.Attachment, error)
	GetAttachmentsByNoteID(noteID string) ([]models.Attachment, error)
}

// GlobalStore is the process-wide store instance, set by InitializeStore.
var GlobalStore Store

// InitializeStore creates the global store based on the configured type.
// SQLite requires the explicit opt-in flag; PebbleDB is the default.
func InitializeStore(dbType, dbPath string, enableSQLite bool) error {
	var store Store
	var err error

	switch dbType {
	case "sqlite":
		if !enableSQLite {
			return fmt.Errorf("sqlite backend requested but not enabled; set enable_sqlite3_i_know_the_risks")
		}
		store, err = NewSQLiteStore(dbPath)
	case "pebble", "":
		store, err = NewPebbleStore(dbPath)
	default:
		return fmt.Errorf("unknown database type: %s", dbType)
	}
	if err != nil {
		return err
	}

	GlobalStore = store
	return nil
}

// CloseStore closes the global store if one is open.
func CloseStore() error {
	if GlobalStore == nil {
		return nil
	}
	err := GlobalStore.Close()
	GlobalStore = nil
	return err
}
