// internal/infrastructure/store/snapshot/store.go
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Snapshot key names. These mirror the storefront's device-local storage
// layout one-to-one.
const (
	KeyCart               = "cart"
	KeyCurrentUser        = "currentUser"
	KeyUsername           = "username"
	KeySavedItems         = "savedItems"
	KeyOrders             = "orders"
	KeyRedirectAfterLogin = "redirectAfterLogin"
	KeyProducts           = "products"
	KeyCheckoutSession    = "checkoutSession"
	KeyLocalUsers         = "localUsers"
)

// Entry is a single key-value pair in the snapshot store
type Entry struct {
	Key       string `gorm:"primaryKey;size:100"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName overrides the table name
func (Entry) TableName() string {
	return "snapshot_entries"
}

// Store is the device-local persistent key-value store. It is the durability
// guarantee the storefront depends on: writes are synchronous, last write
// wins, and malformed stored values are treated as absent rather than errors.
type Store struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// Open opens (or creates) the snapshot store at path. Use ":memory:" in tests.
func Open(path string, logger *logrus.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate snapshot store: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Get returns the raw stored value for key and whether it was present
func (s *Store) Get(key string) (string, bool) {
	var entry Entry
	err := s.db.Where("key = ?", key).First(&entry).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			s.logger.WithError(err).WithField("key", key).Warn("snapshot read failed")
		}
		return "", false
	}
	return entry.Value, true
}

// Set stores a raw value under key, replacing any previous value
func (s *Store) Set(key, value string) error {
	entry := Entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.Save(&entry).Error
	if err != nil {
		return fmt.Errorf("snapshot write %q: %w", key, err)
	}
	return nil
}

// Delete removes key from the store. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	err := s.db.Where("key = ?", key).Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("snapshot delete %q: %w", key, err)
	}
	return nil
}

// GetJSON decodes the value stored under key into dest. A missing key or a
// value that fails to decode both report absence; corruption is logged but
// never surfaced to the caller.
func (s *Store) GetJSON(key string, dest interface{}) bool {
	raw, ok := s.Get(key)
	if !ok {
		return false
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("discarding malformed snapshot value")
		return false
	}
	return true
}

// SetJSON encodes value as JSON and stores it under key
func (s *Store) SetJSON(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("snapshot encode %q: %w", key, err)
	}
	return s.Set(key, string(data))
}

// Close closes the underlying database
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health checks the snapshot store connection
func (s *Store) Health() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
