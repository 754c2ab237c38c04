package localstore

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/pagekeeper/internal/entities"
)

// GetSettings returns the device's reader settings, falling back to the
// defaults when none have been saved yet.
func (s *Store) GetSettings() (*entities.ReaderSettings, error) {
	var settings entities.ReaderSettings
	err := s.db.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := entities.DefaultReaderSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	return &settings, nil
}

// SaveSettings persists the reader settings, keeping a single row.
func (s *Store) SaveSettings(settings *entities.ReaderSettings) error {
	settings.UpdatedAt = time.Now().UTC()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing entities.ReaderSettings
		result := tx.First(&existing)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return tx.Create(settings).Error
		}
		if result.Error != nil {
			return result.Error
		}
		settings.ID = existing.ID
		return tx.Save(settings).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
