// file: internal/database/pebble_store.go
// version: 1.0.0
// guid: 5f6a9b2c-8d4e-4f7a-0b1c-3d4e5f6a7b8c

package database

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/pebble/v2"
	ulid "github.com/oklog/ulid/v2"

	"github.com/jdfalk/notekeeper/internal/models"
)

// PebbleStore implements the Store interface using PebbleDB (LSM key-value store)
//
// Key Schema:
// - note:<id>                        -> Note JSON
// - notecol:<collection_id>:<id>     -> note_id (for collection queries)
// - collection:<id>                  -> Collection JSON
// - attachment:<note_id>:<id>        -> Attachment JSON
type PebbleStore struct {
	db *pebble.DB
}

// NewPebbleStore creates a new PebbleDB store
func NewPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open PebbleDB: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

// Close closes the database
func (p *PebbleStore) Close() error {
	return p.db.Close()
}

func newULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (p *PebbleStore) getJSON(key string, out any) error {
	value, closer, err := p.db.Get([]byte(key))
	if err == pebble.ErrNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	defer closer.Close()
	return json.Unmarshal(value, out)
}

func (p *PebbleStore) setJSON(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return p.db.Set([]byte(key), data, pebble.Sync)
}

// scanPrefix iterates every key under prefix and hands the value to fn.
func (p *PebbleStore) scanPrefix(prefix string, fn func(key string, value []byte) error) error {
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: []byte(prefix + "\xff"),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(string(iter.Key()), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

// Note operations

func (p *PebbleStore) GetAllNotes(limit, offset int) ([]models.Note, error) {
	var notes []models.Note
	err := p.scanPrefix("note:", func(_ string, value []byte) error {
		var note models.Note
		if err := json.Unmarshal(value, &note); err != nil {
			return err
		}
		notes = append(notes, note)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Newest first; ULID keys iterate oldest-first.
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID > notes[j].ID })

	if offset >= len(notes) {
		return []models.Note{}, nil
	}
	notes = notes[offset:]
	if limit > 0 && limit < len(notes) {
		notes = notes[:limit]
	}
	return notes, nil
}

func (p *PebbleStore) CountNotes() (int, error) {
	count := 0
	err := p.scanPrefix("note:", func(_ string, _ []byte) error {
		count++
		return nil
	})
	return count, err
}

func (p *PebbleStore) GetNoteByID(id string) (*models.Note, error) {
	var note models.Note
	if err := p.getJSON("note:"+id, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (p *PebbleStore) GetNotesByCollectionID(collectionID string) ([]models.Note, error) {
	var notes []models.Note
	err := p.scanPrefix("notecol:"+collectionID+":", func(_ string, value []byte) error {
		note, err := p.GetNoteByID(string(value))
		if err == ErrNotFound {
			// Stale index entry; skip.
			return nil
		}
		if err != nil {
			return err
		}
		notes = append(notes, *note)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID > notes[j].ID })
	return notes, nil
}

func (p *PebbleStore) CreateNote(note *models.Note) (*models.Note, error) {
	if note.ID == "" {
		id, err := newULID()
		if err != nil {
			return nil, err
		}
		note.ID = id
	}
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	if err := p.setJSON("note:"+note.ID, note); err != nil {
		return nil, err
	}
	if note.CollectionID != "" {
		key := fmt.Sprintf("notecol:%s:%s", note.CollectionID, note.ID)
		if err := p.db.Set([]byte(key), []byte(note.ID), pebble.Sync); err != nil {
			return nil, err
		}
	}
	return note, nil
}

func (p *PebbleStore) UpdateNote(id string, note *models.Note) (*models.Note, error) {
	existing, err := p.GetNoteByID(id)
	if err != nil {
		return nil, err
	}

	note.ID = id
	note.CreatedAt = existing.CreatedAt
	note.UpdatedAt = time.Now().UTC()

	if existing.CollectionID != "" && existing.CollectionID != note.CollectionID {
		key := fmt.Sprintf("notecol:%s:%s", existing.CollectionID, id)
		if err := p.db.Delete([]byte(key), pebble.Sync); err != nil {
			return nil, err
		}
	}
	if err := p.setJSON("note:"+id, note); err != nil {
		return nil, err
	}
	if note.CollectionID != "" {
		key := fmt.Sprintf("notecol:%s:%s", note.CollectionID, id)
		if err := p.db.Set([]byte(key), []byte(id), pebble.Sync); err != nil {
			return nil, err
		}
	}
	return note, nil
}

func (p *PebbleStore) DeleteNote(id string) error {
	existing, err := p.GetNoteByID(id)
	if err != nil {
		return err
	}
	if existing.CollectionID != "" {
		key := fmt.Sprintf("notecol:%s:%s", existing.CollectionID, id)
		if err := p.db.Delete([]byte(key), pebble.Sync); err != nil {
			return err
		}
	}
	return p.db.Delete([]byte("note:"+id), pebble.Sync)
}

// Collection operations

func (p *PebbleStore) GetAllCollections() ([]models.Collection, error) {
	var cols []models.Collection
	err := p.scanPrefix("collection:", func(_ string, value []byte) error {
		var col models.Collection
		if err := json.Unmarshal(value, &col); err != nil {
			return err
		}
		cols = append(cols, col)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(cols, func(i, j int) bool {
		return strings.ToLower(cols[i].Name) < strings.ToLower(cols[j].Name)
	})
	return cols, nil
}

func (p *PebbleStore) GetCollectionByID(id string) (*models.Collection, error) {
	var col models.Collection
	if err := p.getJSON("collection:"+id, &col); err != nil {
		return nil, err
	}
	return &col, nil
}

func (p *PebbleStore) CreateCollection(col *models.Collection) (*models.Collection, error) {
	if col.ID == "" {
		id, err := newULID()
		if err != nil {
			return nil, err
		}
		col.ID = id
	}
	now := time.Now().UTC()
	col.CreatedAt = now
	col.UpdatedAt = now
	if err := p.setJSON("collection:"+col.ID, col); err != nil {
		return nil, err
	}
	return col, nil
}

func (p *PebbleStore) UpdateCollection(id string, col *models.Collection) (*models.Collection, error) {
	existing, err := p.GetCollectionByID(id)
	if err != nil {
		return nil, err
	}
	col.ID = id
	col.CreatedAt = existing.CreatedAt
	col.UpdatedAt = time.Now().UTC()
	if err := p.setJSON("collection:"+id, col); err != nil {
		return nil, err
	}
	return col, nil
}

func (p *PebbleStore) DeleteCollection(id string) error {
	if _, err := p.GetCollectionByID(id); err != nil {
		return err
	}
	// Detach member notes before dropping the collection.
	notes, err := p.GetNotesByCollectionID(id)
	if err != nil {
		return err
	}
	for i := range notes {
		note := notes[i]
		note.CollectionID = ""
		if _, err := p.UpdateNote(note.ID, &note); err != nil {
			return err
		}
	}
	return p.db.Delete([]byte("collection:"+id), pebble.Sync)
}

// Attachment operations

func (p *PebbleStore) CreateAttachment(att *models.Attachment) (*models.Attachment, error) {
	if att.ID == "" {
		id, err := newULID()
		if err != nil {
			return nil, err
		}
		att.ID = id
	}
	att.CreatedAt = time.Now().UTC()
	key := fmt.Sprintf("attachment:%s:%s", att.NoteID, att.ID)
	if err := p.setJSON(key, att); err != nil {
		return nil, err
	}
	return att, nil
}

func (p *PebbleStore) GetAttachmentsByNoteID(noteID string) ([]models.Attachment, error) {
	var atts []models.Attachment
	err := p.scanPrefix("attachment:"+noteID+":", func(_ string, value []byte) error {
		var att models.Attachment
		if err := json.Unmarshal(value, &att); err != nil {
			return err
		}
		atts = append(atts, att)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return atts, nil
}
