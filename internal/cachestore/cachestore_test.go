package cachestore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/pagekeeper/internal/cache"
	"github.com/mrlokans/pagekeeper/internal/entities"
)

func newTestCache(t *testing.T) *cache.TieredCache {
	tc := cache.NewTieredCache(nil)
	t.Cleanup(func() { tc.Close() })
	return tc
}

func TestUsers_SaveAndLookupBothKeys(t *testing.T) {
	users := NewUsers(newTestCache(t), time.Hour)

	user := &entities.User{ID: "u1", Email: "Reader@Example.com", Name: "Reader"}
	require.NoError(t, users.Save(user))

	byEmail := users.GetByEmail("reader@example.com")
	require.NotNil(t, byEmail)
	assert.Equal(t, "u1", byEmail.ID)

	byID := users.GetByID("u1")
	require.NotNil(t, byID)
	assert.Equal(t, "Reader@Example.com", byID.Email)
}

func TestUsers_Delete(t *testing.T) {
	users := NewUsers(newTestCache(t), time.Hour)

	user := &entities.User{ID: "u1", Email: "reader@example.com"}
	require.NoError(t, users.Save(user))
	users.Delete(user)

	assert.Nil(t, users.GetByEmail("reader@example.com"))
	assert.Nil(t, users.GetByID("u1"))
}

func TestUsers_AbsentIsNil(t *testing.T) {
	users := NewUsers(newTestCache(t), time.Hour)

	assert.Nil(t, users.GetByEmail("nobody@example.com"))
	assert.Nil(t, users.GetByID("u404"))
}

func TestProgress_UpsertAndGetAll(t *testing.T) {
	progress := NewProgress(newTestCache(t), time.Hour, time.Hour)

	accepted := progress.Upsert("u1", []entities.ProgressRecord{
		entities.NewProgressRecord("book-1", 10, 100),
		entities.NewProgressRecord("book-2", 5, 50),
	})
	assert.Equal(t, 2, accepted)

	all := progress.GetAll("u1")
	require.Len(t, all, 2)
}

func TestProgress_UpsertReplacesByBookID(t *testing.T) {
	progress := NewProgress(newTestCache(t), time.Hour, time.Hour)

	progress.Upsert("u1", []entities.ProgressRecord{entities.NewProgressRecord("book-1", 10, 100)})
	progress.Upsert("u1", []entities.ProgressRecord{entities.NewProgressRecord("book-1", 60, 100)})

	all := progress.GetAll("u1")
	require.Len(t, all, 1)
	assert.Equal(t, 60, all[0].CurrentPage)
	assert.Equal(t, 60, all[0].Percentage)
}

func TestProgress_DerivesPercentageOnUpsert(t *testing.T) {
	progress := NewProgress(newTestCache(t), time.Hour, time.Hour)

	record := entities.ProgressRecord{BookID: "book-1", CurrentPage: 1, TotalPages: 3, Percentage: 99}
	progress.Upsert("u1", []entities.ProgressRecord{record})

	got := progress.Get("u1", "book-1")
	require.NotNil(t, got)
	assert.Equal(t, 33, got.Percentage)
}

func TestProgress_SkipsEmptyBookID(t *testing.T) {
	progress := NewProgress(newTestCache(t), time.Hour, time.Hour)

	accepted := progress.Upsert("u1", []entities.ProgressRecord{{BookID: ""}})
	assert.Equal(t, 0, accepted)
	assert.Empty(t, progress.GetAll("u1"))
}

func TestProgress_UsersAreIsolated(t *testing.T) {
	progress := NewProgress(newTestCache(t), time.Hour, time.Hour)

	progress.Upsert("u1", []entities.ProgressRecord{entities.NewProgressRecord("book-1", 10, 100)})

	assert.Empty(t, progress.GetAll("u2"))
	assert.Nil(t, progress.Get("u2", "book-1"))
}

func TestProgress_DevicePath(t *testing.T) {
	progress := NewProgress(newTestCache(t), time.Hour, time.Hour)

	record := entities.NewProgressRecord("book-1", 25, 100)
	require.NoError(t, progress.PutDevice(record))

	got := progress.GetDevice("book-1")
	require.NotNil(t, got)
	assert.Equal(t, 25, got.CurrentPage)

	assert.Nil(t, progress.GetDevice("book-404"))
}
