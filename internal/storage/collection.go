package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"design2prompt/internal/domain"
)

// CollectionStore implements domain.CollectionStore using SQL.
type CollectionStore struct {
	db *DB
}

func NewCollectionStore(db *DB) *CollectionStore {
	return &CollectionStore{db: db}
}

func (s *CollectionStore) CreateCollection(c *domain.Collection) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := s.db.exec(
		`INSERT INTO collections (id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}

func (s *CollectionStore) GetCollection(id string) (*domain.Collection, error) {
	c := &domain.Collection{}
	err := s.db.queryRow(
		`SELECT id, name, description, created_at, updated_at FROM collections WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("collection %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}
	components, err := s.listComponents(id)
	if err != nil {
		return nil, err
	}
	c.Components = components
	return c, nil
}

// ListCollections returns every collection with its components, oldest first.
func (s *CollectionStore) ListCollections() ([]domain.Collection, error) {
	rows, err := s.db.query(`SELECT id, name, description, created_at, updated_at FROM collections ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	collections := []domain.Collection{}
	for rows.Next() {
		var c domain.Collection
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Components are fetched after the cursor is closed: SQLite runs on one connection.
	rows.Close()
	for i := range collections {
		components, err := s.listComponents(collections[i].ID)
		if err != nil {
			return nil, err
		}
		collections[i].Components = components
	}
	return collections, nil
}

func (s *CollectionStore) UpdateCollection(c *domain.Collection) error {
	c.UpdatedAt = time.Now().UTC()
	res, err := s.db.exec(
		`UPDATE collections SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Description, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update collection: %w", err)
	}
	return requireRow(res, "collection", c.ID)
}

func (s *CollectionStore) DeleteCollection(id string) error {
	if _, err := s.db.exec(`DELETE FROM saved_components WHERE collection_id = ?`, id); err != nil {
		return fmt.Errorf("delete collection components: %w", err)
	}
	res, err := s.db.exec(`DELETE FROM collections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return requireRow(res, "collection", id)
}

func (s *CollectionStore) AddComponent(collectionID string, sc *domain.SavedComponent) error {
	if _, err := s.GetCollection(collectionID); err != nil {
		return err
	}
	style, err := json.Marshal(sc.StyleParams)
	if err != nil {
		return fmt.Errorf("encode style params: %w", err)
	}
	sc.SavedAt = time.Now().UTC()
	_, err = s.db.exec(
		`INSERT INTO saved_components (id, collection_id, ref_id, name, style_json, saved_at) VALUES (?, ?, ?, ?, ?, ?)`,
		sc.ID, collectionID, sc.RefID, sc.Name, string(style), sc.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("add component: %w", err)
	}
	return s.touch(collectionID)
}

func (s *CollectionStore) UpdateComponent(collectionID string, sc *domain.SavedComponent) error {
	style, err := json.Marshal(sc.StyleParams)
	if err != nil {
		return fmt.Errorf("encode style params: %w", err)
	}
	res, err := s.db.exec(
		`UPDATE saved_components SET ref_id = ?, name = ?, style_json = ? WHERE id = ? AND collection_id = ?`,
		sc.RefID, sc.Name, string(style), sc.ID, collectionID,
	)
	if err != nil {
		return fmt.Errorf("update component: %w", err)
	}
	if err := requireRow(res, "component", sc.ID); err != nil {
		return err
	}
	return s.touch(collectionID)
}

func (s *CollectionStore) RemoveComponent(collectionID, componentID string) error {
	res, err := s.db.exec(`DELETE FROM saved_components WHERE id = ? AND collection_id = ?`, componentID, collectionID)
	if err != nil {
		return fmt.Errorf("remove component: %w", err)
	}
	if err := requireRow(res, "component", componentID); err != nil {
		return err
	}
	return s.touch(collectionID)
}

func (s *CollectionStore) listComponents(collectionID string) ([]domain.SavedComponent, error) {
	rows, err := s.db.query(
		`SELECT id, ref_id, name, style_json, saved_at FROM saved_components WHERE collection_id = ? ORDER BY saved_at ASC`,
		collectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	defer rows.Close()

	components := []domain.SavedComponent{}
	for rows.Next() {
		var sc domain.SavedComponent
		var style string
		if err := rows.Scan(&sc.ID, &sc.RefID, &sc.Name, &style, &sc.SavedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(style), &sc.StyleParams); err != nil {
			return nil, fmt.Errorf("decode style params of %s: %w", sc.ID, err)
		}
		components = append(components, sc)
	}
	return components, rows.Err()
}

func (s *CollectionStore) touch(collectionID string) error {
	_, err := s.db.exec(`UPDATE collections SET updated_at = ? WHERE id = ?`, time.Now().UTC(), collectionID)
	return err
}

func requireRow(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, domain.ErrNotFound)
	}
	return nil
}
