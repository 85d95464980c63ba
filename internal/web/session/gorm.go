package session

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/guit-county/guit-portal/internal/db/models"
)

// GormStorage is a fiber.Storage on the sessions table of the document database.
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage returns a storage on db. The sessions table is created by db.Migrate.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

// Get implements fiber.Storage.
func (s *GormStorage) Get(key string) ([]byte, error) {
	var row models.Session

	err := s.db.Where("id = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if row.ExpiresAt != 0 && row.ExpiresAt <= time.Now().Unix() {
		return nil, s.Delete(key)
	}

	return row.Value, nil
}

// Set implements fiber.Storage.
func (s *GormStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	row := models.Session{ID: key, Value: val}
	if exp > 0 {
		row.ExpiresAt = time.Now().Add(exp).Unix()
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at"}),
	}).Create(&row).Error
}

// Delete implements fiber.Storage.
func (s *GormStorage) Delete(key string) error {
	return s.db.Where("id = ?", key).Delete(&models.Session{}).Error
}

// Reset implements fiber.Storage.
func (s *GormStorage) Reset() error {
	return s.db.Where("1 = 1").Delete(&models.Session{}).Error
}

// Close implements fiber.Storage. The connection belongs to the document store.
func (s *GormStorage) Close() error {
	return nil
}

// DeleteExpired removes every expired entry.
func (s *GormStorage) DeleteExpired() error {
	return s.db.Where("expires_at <> 0 AND expires_at <= ?", time.Now().Unix()).Delete(&models.Session{}).Error
}
