package localstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/pagekeeper/internal/entities"
)

// ErrNoProgress is returned when a bookmark operation targets a book the
// device has no progress record for.
var ErrNoProgress = errors.New("no progress record for book")

// GetBookmarks returns a book's bookmarks in creation order. A book with
// no progress record simply has no bookmarks.
func (s *Store) GetBookmarks(bookID string) ([]entities.Bookmark, error) {
	record, err := s.GetProgress(bookID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return record.Bookmarks, nil
}

// SaveBookmark adds a bookmark to the book's progress record and returns
// it with its generated id.
func (s *Store) SaveBookmark(bookID string, page int, note string) (*entities.Bookmark, error) {
	var bookmark entities.Bookmark

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var record entities.ProgressRecord
		err := tx.Where("book_id = ?", bookID).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoProgress
		}
		if err != nil {
			return err
		}

		bookmark = entities.Bookmark{
			ID:               uuid.NewString(),
			ProgressRecordID: record.ID,
			Page:             page,
			Note:             note,
			CreatedAt:        time.Now().UTC(),
		}
		return tx.Create(&bookmark).Error
	})
	if err != nil {
		if errors.Is(err, ErrNoProgress) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save bookmark for %s: %w", bookID, err)
	}
	return &bookmark, nil
}

// RemoveBookmark deletes a bookmark by id. Removing an unknown id is a
// no-op.
func (s *Store) RemoveBookmark(bookID, bookmarkID string) error {
	record, err := s.GetProgress(bookID)
	if err != nil {
		return err
	}
	if record == nil {
		return nil
	}

	err = s.db.Where("id = ? AND progress_record_id = ?", bookmarkID, record.ID).
		Delete(&entities.Bookmark{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove bookmark %s: %w", bookmarkID, err)
	}
	return nil
}
