package localstore

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/pagekeeper/internal/entities"
)

func setupTestStore(t *testing.T) *Store {
	store, err := Open(filepath.Join(t.TempDir(), "device.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveAndGetProgress(t *testing.T) {
	store := setupTestStore(t)

	record := entities.NewProgressRecord("book-1", 10, 200)
	require.NoError(t, store.SaveProgress(&record))

	got, err := store.GetProgress("book-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 10, got.CurrentPage)
	assert.Equal(t, 200, got.TotalPages)
	assert.Equal(t, 5, got.Percentage)
}

func TestStore_GetProgress_Absent(t *testing.T) {
	store := setupTestStore(t)

	got, err := store.GetProgress("never-read")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_SaveProgress_PercentageDerivation(t *testing.T) {
	store := setupTestStore(t)

	tests := []struct {
		name        string
		currentPage int
		totalPages  int
		want        int
	}{
		{"start of book", 1, 200, 1},
		{"midway rounds", 1, 3, 33},
		{"rounds up", 2, 3, 67},
		{"finished", 200, 200, 100},
		{"unknown length", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := entities.ProgressRecord{
				BookID:      "book-" + tt.name,
				CurrentPage: tt.currentPage,
				TotalPages:  tt.totalPages,
				Percentage:  99, // Must be overwritten by the derivation
				LastRead:    time.Now().UTC(),
			}
			require.NoError(t, store.SaveProgress(&record))

			got, err := store.GetProgress(record.BookID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Percentage)
		})
	}
}

func TestStore_SaveProgress_UpsertsByBookID(t *testing.T) {
	store := setupTestStore(t)

	first := entities.NewProgressRecord("book-1", 10, 200)
	require.NoError(t, store.SaveProgress(&first))

	second := entities.NewProgressRecord("book-1", 50, 200)
	require.NoError(t, store.SaveProgress(&second))

	all, err := store.GetAllProgress()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 50, all["book-1"].CurrentPage)
}

func TestStore_SaveProgress_ReplacesBookmarksWholesale(t *testing.T) {
	store := setupTestStore(t)

	record := entities.NewProgressRecord("book-1", 10, 200)
	require.NoError(t, store.SaveProgress(&record))

	_, err := store.SaveBookmark("book-1", 7, "old note")
	require.NoError(t, err)

	replacement := entities.NewProgressRecord("book-1", 20, 200)
	replacement.Bookmarks = []entities.Bookmark{
		{ID: "bm-new", Page: 15, Note: "from other device", CreatedAt: time.Now().UTC()},
	}
	require.NoError(t, store.SaveProgress(&replacement))

	bookmarks, err := store.GetBookmarks("book-1")
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "bm-new", bookmarks[0].ID)
}

func TestStore_Bookmarks(t *testing.T) {
	store := setupTestStore(t)

	record := entities.NewProgressRecord("book-1", 10, 200)
	require.NoError(t, store.SaveProgress(&record))

	bm, err := store.SaveBookmark("book-1", 42, "the spice")
	require.NoError(t, err)
	require.NotEmpty(t, bm.ID)

	bookmarks, err := store.GetBookmarks("book-1")
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, 42, bookmarks[0].Page)
	assert.Equal(t, "the spice", bookmarks[0].Note)

	require.NoError(t, store.RemoveBookmark("book-1", bm.ID))

	bookmarks, err = store.GetBookmarks("book-1")
	require.NoError(t, err)
	assert.Empty(t, bookmarks)
}

func TestStore_SaveBookmark_NoProgressRecord(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.SaveBookmark("never-read", 1, "")
	assert.ErrorIs(t, err, ErrNoProgress)
}

func TestStore_RemoveBookmark_UnknownIsNoOp(t *testing.T) {
	store := setupTestStore(t)

	record := entities.NewProgressRecord("book-1", 10, 200)
	require.NoError(t, store.SaveProgress(&record))

	assert.NoError(t, store.RemoveBookmark("book-1", "no-such-bookmark"))
	assert.NoError(t, store.RemoveBookmark("never-read", "no-such-bookmark"))
}

func TestStore_RecentBooks_MoveToFrontWithoutDuplicates(t *testing.T) {
	store := setupTestStore(t)

	base := time.Now().UTC()
	for i, bookID := range []string{"a", "b", "c"} {
		record := entities.NewProgressRecord(bookID, 1, 100)
		record.LastRead = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.SaveProgress(&record))
	}

	// Re-reading "a" moves it to the front, not duplicated.
	record := entities.NewProgressRecord("a", 50, 100)
	record.LastRead = base.Add(time.Hour)
	require.NoError(t, store.SaveProgress(&record))

	recent, err := store.GetRecentBooks()
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "a", recent[0].BookID)
	assert.Equal(t, 50, recent[0].Percentage)
	assert.Equal(t, "c", recent[1].BookID)
	assert.Equal(t, "b", recent[2].BookID)
}

func TestStore_RecentBooks_CappedAtTwenty(t *testing.T) {
	store := setupTestStore(t)

	base := time.Now().UTC()
	for i := 0; i < MaxRecentBooks+5; i++ {
		record := entities.NewProgressRecord(fmt.Sprintf("book-%02d", i), 1, 100)
		record.LastRead = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.SaveProgress(&record))
	}

	recent, err := store.GetRecentBooks()
	require.NoError(t, err)
	require.Len(t, recent, MaxRecentBooks)
	assert.Equal(t, "book-24", recent[0].BookID)
	// The five oldest entries fell off the end.
	for _, entry := range recent {
		assert.GreaterOrEqual(t, entry.BookID, "book-05")
	}
}

func TestStore_Settings_DefaultsWhenUnset(t *testing.T) {
	store := setupTestStore(t)

	settings, err := store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, 16, settings.FontSize)
	assert.Equal(t, "light", settings.Theme)
}

func TestStore_Settings_SaveAndReload(t *testing.T) {
	store := setupTestStore(t)

	settings := entities.DefaultReaderSettings()
	settings.Theme = "dark"
	settings.FontSize = 18
	require.NoError(t, store.SaveSettings(&settings))

	// Saving twice keeps a single row.
	settings.FontSize = 20
	require.NoError(t, store.SaveSettings(&settings))

	got, err := store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Theme)
	assert.Equal(t, 20, got.FontSize)
}

func TestStore_ClearAll(t *testing.T) {
	store := setupTestStore(t)

	record := entities.NewProgressRecord("book-1", 10, 200)
	require.NoError(t, store.SaveProgress(&record))
	_, err := store.SaveBookmark("book-1", 5, "")
	require.NoError(t, err)

	require.NoError(t, store.ClearAll())

	all, err := store.GetAllProgress()
	require.NoError(t, err)
	assert.Empty(t, all)

	recent, err := store.GetRecentBooks()
	require.NoError(t, err)
	assert.Empty(t, recent)
}
