// Package localstore is the per-device durable store: reading progress,
// bookmarks, reader settings and the recent-books list, all persisted in a
// device-local sqlite database.
//
// The store knows nothing about the network. Errors from it mean the
// durable write itself failed (quota, corruption) and are the only errors
// in the subsystem that propagate to the reading UI.
//
// # Usage
//
//	store, err := localstore.Open("./pagekeeper.db")
//	record := entities.NewProgressRecord("book-1", 10, 200)
//	err = store.SaveProgress(&record)
package localstore

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/pagekeeper/internal/entities"
)

// MaxRecentBooks caps the recent-books list.
const MaxRecentBooks = 20

// Store wraps the device-local database.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the device database at path and migrates the
// schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	return newStore(db)
}

func newStore(db *gorm.DB) (*Store, error) {
	err := db.AutoMigrate(
		&entities.ProgressRecord{},
		&entities.Bookmark{},
		&entities.RecentBook{},
		&entities.ReaderSettings{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ClearAll wipes every record this store owns. Only an explicit
// collaborator action reaches this; nothing in the subsystem calls it.
func (s *Store) ClearAll() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&entities.Bookmark{},
			&entities.ProgressRecord{},
			&entities.RecentBook{},
			&entities.ReaderSettings{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
