// Package state is the client-side persisted storage: a small
// key/value table in a local sqlite database. It is read once at
// startup and written only by login/logout and the UI preference
// toggles, so last-writer-wins is sufficient.
package state

import (
	"errors"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Fixed storage keys shared with the original web client.
const (
	KeyUser             = "crmUser"
	KeyToken            = "crmToken"
	KeyRefreshToken     = "crmRefreshToken"
	KeySidebarCollapsed = "sidebarCollapsed"
	KeyDarkMode         = "darkMode"
)

// Store is the persisted key/value contract. Get returns ok=false for
// a missing key; Delete on a missing key is a no-op.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

type entry struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

func (entry) TableName() string { return "state" }

type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (and migrates) the state database under dir.
func OpenSQLite(dir string) (*SQLiteStore, error) {
	path := filepath.Join(dir, "crmdesk.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var e entry
	result := s.db.Where("key = ?", key).First(&e)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if result.Error != nil {
		return "", false, result.Error
	}
	return e.Value, true, nil
}

func (s *SQLiteStore) Set(key, value string) error {
	return s.db.Save(&entry{Key: key, Value: value}).Error
}

func (s *SQLiteStore) Delete(key string) error {
	return s.db.Where("key = ?", key).Delete(&entry{}).Error
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// MemoryStore backs tests and ephemeral runs.
type MemoryStore struct {
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	delete(m.values, key)
	return nil
}
