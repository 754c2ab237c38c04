package syncer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/pagekeeper/internal/entities"
)

func TestClient_FetchProgress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/sync/progress", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(progressSetResponse{
			Progress: []entities.ProgressRecord{
				entities.NewProgressRecord("book-1", 50, 100),
			},
			Count: 1,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-token")
	records, err := client.FetchProgress(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "book-1", records[0].BookID)
	assert.Equal(t, 50, records[0].CurrentPage)
}

func TestClient_PushProgress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))

		var payload pushRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		json.NewEncoder(w).Encode(pushResponse{Synced: len(payload.Progress)})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-token")
	accepted, err := client.PushProgress(context.Background(), []entities.ProgressRecord{
		entities.NewProgressRecord("book-1", 50, 100),
		entities.NewProgressRecord("book-2", 3, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, accepted)
}

func TestClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-token")

	_, err := client.FetchProgress(context.Background())
	assert.Error(t, err)

	_, err = client.PushProgress(context.Background(), nil)
	assert.Error(t, err)
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-token")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchProgress(ctx)
	assert.Error(t, err)
}
