package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mrlokans/pagekeeper/internal/entities"
)

// RemoteClient is the sync boundary the reconciler talks to. The HTTP
// implementation lives below; tests substitute their own.
type RemoteClient interface {
	FetchProgress(ctx context.Context) ([]entities.ProgressRecord, error)
	PushProgress(ctx context.Context, records []entities.ProgressRecord) (int, error)
}

// Client calls the server's authenticated sync endpoints, forwarding the
// opaque bearer credential it was constructed with.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a sync API client for the given server.
func NewClient(baseURL, token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		token:   token,
	}
}

type progressSetResponse struct {
	Progress []entities.ProgressRecord `json:"progress"`
	Count    int                       `json:"count"`
}

type pushRequest struct {
	Progress []entities.ProgressRecord `json:"progress"`
}

type pushResponse struct {
	Synced int `json:"synced"`
}

// FetchProgress retrieves the user's full remote progress set.
func (c *Client) FetchProgress(ctx context.Context) ([]entities.ProgressRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/sync/progress", nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("progress fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("progress fetch failed: status %d", resp.StatusCode)
	}

	var payload progressSetResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("progress fetch failed: %w", err)
	}
	return payload.Progress, nil
}

// PushProgress upserts the given records remotely and returns the count
// the server accepted.
func (c *Client) PushProgress(ctx context.Context, records []entities.ProgressRecord) (int, error) {
	body, err := json.Marshal(pushRequest{Progress: records})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/sync/progress", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("progress push failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("progress push failed: status %d", resp.StatusCode)
	}

	var payload pushResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("progress push failed: %w", err)
	}
	return payload.Synced, nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
}
