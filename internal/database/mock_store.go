// file: internal/database/mock_store.go
// version: 1.0.0
// guid: 7b8c1d4e-0f6a-4b9c-2d3e-5f6a7b8c9d0e

package database

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jdfalk/notekeeper/internal/models"
)

// MockStore is an in-memory Store for tests. ForcedErr, when set, is
// returned by every operation so callers can exercise store-failure paths.
type MockStore struct {
	mu          sync.Mutex
	notes       map[string]models.Note
	collections map[string]models.Collection
	attachments map[string][]models.Attachment
	nextID      int

	ForcedErr error
}

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{
		notes:       make(map[string]models.Note),
		collections: make(map[string]models.Collection),
		attachments: make(map[string][]models.Attachment),
	}
}

func (m *MockStore) Close() error { return m.ForcedErr }

func (m *MockStore) genID() string {
	m.nextID++
	return fmt.Sprintf("01MOCK%020d", m.nextID)
}

// Note operations

func (m *MockStore) GetAllNotes(limit, offset int) ([]models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	notes := make([]models.Note, 0, len(m.notes))
	for _, n := range m.notes {
		notes = append(notes, n)
	}
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

func (m *MockStore) CountNotes() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForcedErr != nil {
		return 0, m.ForcedErr
	}
	return len(m.notes), nil
}

func (m *MockStore) GetNoteByID(id string) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	note, ok := m.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &note, nil
}

func (m *MockStore) GetNotesByCollectionID(collectionID string) ([]models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	notes := []models.Note{}
	for _, n := range m.notes {
		if n.CollectionID == collectionID {
			notes = append(notes, n)
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID > notes[j].ID })
	return notes, nil
}

func (m *MockStore) CreateNote(note *models.Note) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	if note.ID == "" {
		note.ID = m.genID()
	}
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now
	m.notes[note.ID] = *note
	return note, nil
}

func (m *MockStore) UpdateNote(id string, note *models.Note) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	existing, ok := m.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	note.ID = id
	note.CreatedAt = existing.CreatedAt
	note.UpdatedAt = time.Now().UTC()
	m.notes[id] = *note
	return note, nil
}

func (m *MockStore) DeleteNote(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	if _, ok := m.notes[id]; !ok {
		return ErrNotFound
	}
	delete(m.notes, id)
	return nil
}

// Collection operations

func (m *MockStore) GetAllCollections() ([]models.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	cols := make([]models.Collection, 0, len(m.collections))
	for _, c := range m.collections {
		cols = append(cols, c)
	}
	sort.Slice(cols, func(i, j int) bool {
		return strings.ToLower(cols[i].Name) < strings.ToLower(cols[j].Name)
	})
	return cols, nil
}

func (m *MockStore) GetCollectionByID(id string) (*models.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	col, ok := m.collections[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &col, nil
}

func (m *MockStore) CreateCollection(col *models.Collection) (*models.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	if col.ID == "" {
		col.ID = m.genID()
	}
	now := time.Now().UTC()
	col.CreatedAt = now
	col.UpdatedAt = now
	m.collections[col.ID] = *col
	return col, nil
}

func (m *MockStore) UpdateCollection(id string, col *models.Collection) (*models.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	existing, ok := m.collections[id]
	if !ok {
		return nil, ErrNotFound
	}
	col.ID = id
	col.CreatedAt = existing.CreatedAt
	col.UpdatedAt = time.Now().UTC()
	m.collections[id] = *col
	return col, nil
}

func (m *MockStore) DeleteCollection(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	if _, ok := m.collections[id]; !ok {
		return ErrNotFound
	}
	delete(m.collections, id)
	for id2, n := range m.notes {
		if n.CollectionID == id {
			n.CollectionID = ""
			m.notes[id2] = n
		}
	}
	return nil
}

// Attachment operations

func (m *MockStore) CreateAttachment(att *models.Attachment) (*models.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	if att.ID == "" {
		att.ID = m.genID()
	}
	att.CreatedAt = time.Now().UTC()
	m.attachments[att.NoteID] = append(m.attachments[att.NoteID], *att)
	return att, nil
}

func (m *MockStore) GetAttachmentsByNoteID(noteID string) ([]models.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	return append([]models.Attachment{}, m.attachments[noteID]...), nil
}
