package entities

import (
	"math"
	"time"
)

// ProgressRecord tracks a reader's position in a single book. There is at
// most one record per (user, book) pair in any store; Percentage is always
// derived from CurrentPage/TotalPages and never written independently.
type ProgressRecord struct {
	ID          uint       `gorm:"primaryKey" json:"-"`
	BookID      string     `gorm:"uniqueIndex;size:64" json:"book_id"`
	CurrentPage int        `json:"current_page"`
	TotalPages  int        `json:"total_pages"`
	Percentage  int        `json:"percentage"`
	LastRead    time.Time  `gorm:"index" json:"last_read"`
	Bookmarks   []Bookmark `gorm:"foreignKey:ProgressRecordID;constraint:OnDelete:CASCADE" json:"bookmarks"`
}

func (ProgressRecord) TableName() string {
	return "progress_records"
}

// NewProgressRecord builds a record for the given position with the
// percentage derived and LastRead set to now.
func NewProgressRecord(bookID string, currentPage, totalPages int) ProgressRecord {
	r := ProgressRecord{
		BookID:      bookID,
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		LastRead:    time.Now().UTC(),
	}
	r.DerivePercentage()
	return r
}

// DerivePercentage recomputes Percentage from CurrentPage and TotalPages.
// Every write path must call this before persisting.
func (r *ProgressRecord) DerivePercentage() {
	if r.TotalPages <= 0 {
		r.Percentage = 0
		return
	}
	r.Percentage = int(math.Round(float64(r.CurrentPage) / float64(r.TotalPages) * 100))
}

// Bookmark is owned by its ProgressRecord and removed only by explicit
// deletion, never by expiry.
type Bookmark struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	ProgressRecordID uint      `gorm:"index" json:"-"`
	Page             int       `json:"page"`
	Note             string    `gorm:"size:500" json:"note,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

// RecentBook is one entry of the most-recent-first reading list. The list
// is capped and de-duplicated by BookID; saving progress for a book moves
// it to the front.
type RecentBook struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	BookID     string    `gorm:"uniqueIndex;size:64" json:"book_id"`
	LastRead   time.Time `gorm:"index" json:"last_read"`
	Percentage int       `json:"percentage"`
}

func (RecentBook) TableName() string {
	return "recent_books"
}

// ReaderSettings holds the device-local presentation preferences. A single
// row per device database.
type ReaderSettings struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	FontSize    int       `json:"font_size"`
	FontFamily  string    `gorm:"size:100" json:"font_family"`
	Theme       string    `gorm:"size:50" json:"theme"`
	LineSpacing float64   `json:"line_spacing"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ReaderSettings) TableName() string {
	return "reader_settings"
}

// DefaultReaderSettings returns the settings a fresh device starts with.
func DefaultReaderSettings() ReaderSettings {
	return ReaderSettings{
		FontSize:    16,
		FontFamily:  "serif",
		Theme:       "light",
		LineSpacing: 1.5,
	}
}
