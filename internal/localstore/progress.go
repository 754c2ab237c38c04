package localstore

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/pagekeeper/internal/entities"
)

// GetProgress returns the progress record for a book, or nil if the device
// has none.
func (s *Store) GetProgress(bookID string) (*entities.ProgressRecord, error) {
	var record entities.ProgressRecord
	err := s.db.Preload("Bookmarks", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Where("book_id = ?", bookID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read progress for %s: %w", bookID, err)
	}
	return &record, nil
}

// GetAllProgress returns every progress record on this device, keyed by
// book id.
func (s *Store) GetAllProgress() (map[string]entities.ProgressRecord, error) {
	var records []entities.ProgressRecord
	err := s.db.Preload("Bookmarks", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read progress set: %w", err)
	}

	index := make(map[string]entities.ProgressRecord, len(records))
	for _, record := range records {
		index[record.BookID] = record
	}
	return index, nil
}

// SaveProgress upserts the record by book id, replacing its bookmark list
// wholesale, and moves the book to the front of the recent-books list.
// That coupling is deliberate: a durable progress write is the definition
// of "book was read".
func (s *Store) SaveProgress(record *entities.ProgressRecord) error {
	record.DerivePercentage()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing entities.ProgressRecord
		result := tx.Where("book_id = ?", record.BookID).First(&existing)

		if result.Error == nil {
			record.ID = existing.ID
			if err := tx.Where("progress_record_id = ?", existing.ID).Delete(&entities.Bookmark{}).Error; err != nil {
				return err
			}
			if err := tx.Save(record).Error; err != nil {
				return err
			}
		} else if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		} else {
			return result.Error
		}

		return touchRecentBook(tx, record)
	})
	if err != nil {
		return fmt.Errorf("failed to save progress for %s: %w", record.BookID, err)
	}
	return nil
}
