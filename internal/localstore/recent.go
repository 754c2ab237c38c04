package localstore

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/pagekeeper/internal/entities"
)

// GetRecentBooks returns the recent-books list, most recently read first.
func (s *Store) GetRecentBooks() ([]entities.RecentBook, error) {
	var books []entities.RecentBook
	err := s.db.Order("last_read DESC").Limit(MaxRecentBooks).Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read recent books: %w", err)
	}
	return books, nil
}

// AddToRecentBooks moves the book to the front of the list, de-duplicated
// by book id, trimming the list back to MaxRecentBooks entries.
func (s *Store) AddToRecentBooks(bookID string, lastRead time.Time, percentage int) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return upsertRecentBook(tx, bookID, lastRead, percentage)
	})
	if err != nil {
		return fmt.Errorf("failed to update recent books: %w", err)
	}
	return nil
}

// touchRecentBook is the SaveProgress hook: every durable progress write
// also counts as "book was read".
func touchRecentBook(tx *gorm.DB, record *entities.ProgressRecord) error {
	return upsertRecentBook(tx, record.BookID, record.LastRead, record.Percentage)
}

func upsertRecentBook(tx *gorm.DB, bookID string, lastRead time.Time, percentage int) error {
	var entry entities.RecentBook
	result := tx.Where("book_id = ?", bookID).First(&entry)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		entry = entities.RecentBook{
			BookID:     bookID,
			LastRead:   lastRead,
			Percentage: percentage,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
	} else if result.Error != nil {
		return result.Error
	} else {
		entry.LastRead = lastRead
		entry.Percentage = percentage
		if err := tx.Save(&entry).Error; err != nil {
			return err
		}
	}

	return trimRecentBooks(tx)
}

// trimRecentBooks deletes everything past the newest MaxRecentBooks entries.
func trimRecentBooks(tx *gorm.DB) error {
	var overflow []entities.RecentBook
	err := tx.Order("last_read DESC").Offset(MaxRecentBooks).Find(&overflow).Error
	if err != nil {
		return err
	}
	for _, entry := range overflow {
		if err := tx.Delete(&entry).Error; err != nil {
			return err
		}
	}
	return nil
}
