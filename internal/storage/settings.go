package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// SettingsStore is a small key/value table for shell preferences such as
// the window size.
type SettingsStore struct {
	db *DB
}

func NewSettingsStore(db *DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the stored value and whether it exists.
func (s *SettingsStore) Get(key string) (string, bool, error) {
	var v string
	err := s.db.queryRow(`SELECT value FROM app_settings WHERE setting_key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.exec(s.db.upsert("app_settings", "setting_key", "value"), key, value)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}
