// file: internal/database/sqlite_store.go
// version: 1.0.0
// guid: 6a7b0c3d-9e5f-4a8b-1c2d-4e5f6a7b8c9d

package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jdfalk/notekeeper/internal/models"
)

// SQLiteStore implements the Store interface using SQLite3. Opt-in only;
// PebbleDB is the default backend.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store and runs schema setup
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		collection_id TEXT,
		tags TEXT NOT NULL DEFAULT '[]',
		pinned INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_notes_collection ON notes(collection_id);

	CREATE TABLE IF NOT EXISTS collections (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS attachments (
		id TEXT PRIMARY KEY,
		note_id TEXT NOT NULL,
		filename TEXT NOT NULL,
		size INTEGER NOT NULL,
		url TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_attachments_note ON attachments(note_id);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanNote(row interface{ Scan(...any) error }) (*models.Note, error) {
	var note models.Note
	var collectionID sql.NullString
	var tagsJSON string
	if err := row.Scan(&note.ID, &note.Title, &note.Content, &collectionID,
		&tagsJSON, &note.Pinned, &note.CreatedAt, &note.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	note.CollectionID = collectionID.String
	if err := json.Unmarshal([]byte(tagsJSON), &note.Tags); err != nil {
		return nil, err
	}
	return &note, nil
}

const noteColumns = "id, title, content, collection_id, tags, pinned, created_at, updated_at"

// Note operations

func (s *SQLiteStore) GetAllNotes(limit, offset int) ([]models.Note, error) {
	query := fmt.Sprintf("SELECT %s FROM notes ORDER BY id DESC", noteColumns)
	args := []any{}
	if limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}

func (s *SQLiteStore) CountNotes() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&count)
	return count, err
}

func (s *SQLiteStore) GetNoteByID(id string) (*models.Note, error) {
	row := s.db.QueryRow(fmt.Sprintf("SELECT %s FROM notes WHERE id = ?", noteColumns), id)
	return scanNote(row)
}

func (s *SQLiteStore) GetNotesByCollectionID(collectionID string) ([]models.Note, error) {
	rows, err := s.db.Query(
		fmt.Sprintf("SELECT %s FROM notes WHERE collection_id = ? ORDER BY id DESC", noteColumns),
		collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}

func (s *SQLiteStore) CreateNote(note *models.Note) (*models.Note, error) {
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

	tags, err := json.Marshal(tagsOrEmpty(note.Tags))
	if err != nil {
		return nil, err
	}
	_, err = s.db.Exec(
		"INSERT INTO notes (id, title, content, collection_id, tags, pinned, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		note.ID, note.Title, note.Content, nullable(note.CollectionID), string(tags),
		note.Pinned, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (s *SQLiteStore) UpdateNote(id string, note *models.Note) (*models.Note, error) {
	existing, err := s.GetNoteByID(id)
	if err != nil {
		return nil, err
	}
	note.ID = id
	note.CreatedAt = existing.CreatedAt
	note.UpdatedAt = time.Now().UTC()

	tags, err := json.Marshal(tagsOrEmpty(note.Tags))
	if err != nil {
		return nil, err
	}
	_, err = s.db.Exec(
		"UPDATE notes SET title = ?, content = ?, collection_id = ?, tags = ?, pinned = ?, updated_at = ? WHERE id = ?",
		note.Title, note.Content, nullable(note.CollectionID), string(tags),
		note.Pinned, note.UpdatedAt, id)
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (s *SQLiteStore) DeleteNote(id string) error {
	result, err := s.db.Exec("DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Collection operations

func (s *SQLiteStore) GetAllCollections() ([]models.Collection, error) {
	rows, err := s.db.Query(
		"SELECT id, name, description, color, created_at, updated_at FROM collections ORDER BY name COLLATE NOCASE")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := []models.Collection{}
	for rows.Next() {
		var col models.Collection
		if err := rows.Scan(&col.ID, &col.Name, &col.Description, &col.Color,
			&col.CreatedAt, &col.UpdatedAt); err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

func (s *SQLiteStore) GetCollectionByID(id string) (*models.Collection, error) {
	var col models.Collection
	err := s.db.QueryRow(
		"SELECT id, name, description, color, created_at, updated_at FROM collections WHERE id = ?", id).
		Scan(&col.ID, &col.Name, &col.Description, &col.Color, &col.CreatedAt, &col.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &col, nil
}

func (s *SQLiteStore) CreateCollection(col *models.Collection) (*models.Collection, error) {
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
	_, err := s.db.Exec(
		"INSERT INTO collections (id, name, description, color, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		col.ID, col.Name, col.Description, col.Color, col.CreatedAt, col.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return col, nil
}

func (s *SQLiteStore) UpdateCollection(id string, col *models.Collection) (*models.Collection, error) {
	existing, err := s.GetCollectionByID(id)
	if err != nil {
		return nil, err
	}
	col.ID = id
	col.CreatedAt = existing.CreatedAt
	col.UpdatedAt = time.Now().UTC()
	_, err = s.db.Exec(
		"UPDATE collections SET name = ?, description = ?, color = ?, updated_at = ? WHERE id = ?",
		col.Name, col.Description, col.Color, col.UpdatedAt, id)
	if err != nil {
		return nil, err
	}
	return col, nil
}

func (s *SQLiteStore) DeleteCollection(id string) error {
	if _, err := s.GetCollectionByID(id); err != nil {
		return err
	}
	if _, err := s.db.Exec("UPDATE notes SET collection_id = NULL WHERE collection_id = ?", id); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM collections WHERE id = ?", id)
	return err
}

// Attachment operations

func (s *SQLiteStore) CreateAttachment(att *models.Attachment) (*models.Attachment, error) {
	if att.ID == "" {
		id, err := newULID()
		if err != nil {
			return nil, err
		}
		att.ID = id
	}
	att.CreatedAt = time.Now().UTC()
	_, err := s.db.Exec(
		"INSERT INTO attachments (id, note_id, filename, size, url, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		att.ID, att.NoteID, att.Filename, att.Size, att.URL, att.CreatedAt)
	if err != nil {
		return nil, err
	}
	return att, nil
}

func (s *SQLiteStore) GetAttachmentsByNoteID(noteID string) ([]models.Attachment, error) {
	rows, err := s.db.Query(
		"SELECT id, note_id, filename, size, url, created_at FROM attachments WHERE note_id = ? ORDER BY id", noteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	atts := []models.Attachment{}
	for rows.Next() {
		var att models.Attachment
		if err := rows.Scan(&att.ID, &att.NoteID, &att.Filename, &att.Size,
			&att.URL, &att.CreatedAt); err != nil {
			return nil, err
		}
		atts = append(atts, att)
	}
	return atts, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
