package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/pagekeeper/internal/entities"
	"github.com/mrlokans/pagekeeper/internal/localstore"
	"github.com/mrlokans/pagekeeper/internal/syncer"
)

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "device.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	require.NotNil(t, client)

	// Verify the queue database was created alongside the device database
	tasksDBPath := filepath.Join(tmpDir, "device-tasks.db")
	_, err = os.Stat(tasksDBPath)
	assert.NoError(t, err, "tasks database should be created")

	err = client.Close()
	assert.NoError(t, err)
}

func TestClientStartStop(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "device.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)

	// Give it time to start
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	success := client.Stop(stopCtx)
	assert.True(t, success, "stop should succeed gracefully")
}

// recordingRemote captures pushes so worker-side behavior can be observed.
type recordingRemote struct {
	pushed chan entities.ProgressRecord
}

func (r *recordingRemote) FetchProgress(ctx context.Context) ([]entities.ProgressRecord, error) {
	return nil, nil
}

func (r *recordingRemote) PushProgress(ctx context.Context, records []entities.ProgressRecord) (int, error) {
	for _, record := range records {
		r.pushed <- record
	}
	return len(records), nil
}

func TestPushProgressTaskExecution(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "device.db")

	store, err := localstore.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	record := entities.NewProgressRecord("book-1", 42, 100)
	require.NoError(t, store.SaveProgress(&record))

	remote := &recordingRemote{pushed: make(chan entities.ProgressRecord, 1)}
	reconciler := syncer.NewReconciler(store, remote, 30*time.Second)

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	defer client.Close()

	client.Register(NewPushProgressQueue(store, reconciler))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	ids, err := client.Add(PushProgressTask{BookID: "book-1"}).Save()
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	select {
	case pushed := <-remote.pushed:
		assert.Equal(t, "book-1", pushed.BookID)
		assert.Equal(t, 42, pushed.CurrentPage)
	case <-time.After(5 * time.Second):
		t.Fatal("push task was not executed within timeout")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	client.Stop(stopCtx)
}

func TestPushProgressTaskConfig(t *testing.T) {
	cfg := PushProgressTask{BookID: "book-1"}.Config()

	assert.Equal(t, "push_progress", cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestFullResyncTaskConfig(t *testing.T) {
	cfg := FullResyncTask{Reason: "login"}.Config()

	assert.Equal(t, "full_resync", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Backoff)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Minute, cfg.RetryDelay)
	assert.Equal(t, 2*time.Minute, cfg.TaskTimeout)
}
