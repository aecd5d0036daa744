package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"design2prompt/internal/domain"
)

// LayoutDocumentStore implements domain.LayoutDocumentStore over SQL. The
// document is kept as one JSON value per namespace.
type LayoutDocumentStore struct {
	db *DB
}

func NewLayoutDocumentStore(db *DB) *LayoutDocumentStore {
	return &LayoutDocumentStore{db: db}
}

func (s *LayoutDocumentStore) LoadLayout(namespace string) (*domain.LayoutDocument, error) {
	var raw string
	err := s.db.queryRow(`SELECT document_json FROM layout_documents WHERE namespace = ?`, namespace).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("layout %q: %w", namespace, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}
	var doc domain.LayoutDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return &doc, nil
}

func (s *LayoutDocumentStore) SaveLayout(namespace string, doc *domain.LayoutDocument) error {
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	_, err = s.db.exec(
		s.db.upsert("layout_documents", "namespace", "document_json", "updated_at"),
		namespace, string(data), doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	return nil
}

// LayoutUpdatedAt reads only the timestamp column; the layout watcher polls it.
func (s *LayoutDocumentStore) LayoutUpdatedAt(namespace string) (time.Time, error) {
	var t time.Time
	err := s.db.queryRow(`SELECT updated_at FROM layout_documents WHERE namespace = ?`, namespace).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("layout %q: %w", namespace, domain.ErrNotFound)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("layout updated_at: %w", err)
	}
	return t, nil
}
