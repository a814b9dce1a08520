package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/CBIIT/ccdi-dcc-federation-service/ports"
)

// DocumentStore persists JSON documents in SQLite.
type DocumentStore struct {
	db    *DB
	clock ports.Clock
}

// NewDocumentStore creates a document store over db.
func NewDocumentStore(db *DB, clock ports.Clock) *DocumentStore {
	return &DocumentStore{db: db, clock: clock}
}

// Get retrieves a document by id.
func (s *DocumentStore) Get(ctx context.Context, id string) (any, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM documents WHERE id = ?", id,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %q: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query document %q: %w", id, err)
	}

	var doc any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("decode document %q: %w", id, err)
	}
	return doc, nil
}

// Put stores or replaces a document.
func (s *DocumentStore) Put(ctx context.Context, id string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document %q: %w", id, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		id, string(body), s.clock.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("store document %q: %w", id, err)
	}
	return nil
}

// List returns all document ids in lexical order.
func (s *DocumentStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM documents ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan document id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Ensure interface compliance.
var _ ports.DocumentStore = (*DocumentStore)(nil)
