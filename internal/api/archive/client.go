// internal/api/archive/client.go
// Package archive implements the HTTP client for the BookShelf archive
// service: PDF ingestion, job status, semantic search, and health.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mwiater/bookshelf/internal/api"
	"github.com/mwiater/bookshelf/internal/appconfig"
	"github.com/mwiater/bookshelf/internal/logging"
)

// statusPaths are the status endpoints in priority order. The bare /status
// path is what older archive deployments exposed; it is tried only when the
// current path fails.
var statusPaths = []string{"/mcp/status/%s", "/status/%s"}

// ErrNoStatus is returned when every status endpoint failed for this check.
var ErrNoStatus = errors.New("no status available")

// Client talks to the archive service.
type Client struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

// New constructs a Client configured with the application's request timeout.
func New(cfg *appconfig.Config) *Client {
	timeout := cfg.RequestTimeout()
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: cfg.ArchiveBaseURL(),
		timeout: timeout,
	}
}

// Search dispatches a free-text query to the semantic search endpoint and
// returns the raw body for the normalizer to interpret.
func (c *Client) Search(ctx context.Context, query string, resultCount int, userID string) (json.RawMessage, error) {
	payload := map[string]any{"query": query, "top_k": resultCount}
	if userID != "" {
		payload["user_id"] = userID
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	logging.LogRequest("CLI->ARCHIVE", c.baseURL, "search", data)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mcp/search", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.send(req, "search")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Upload submits a PDF for ingestion and returns the upload id to poll.
func (c *Client) Upload(ctx context.Context, upload api.UploadRequest) (string, error) {
	file, err := os.Open(upload.FilePath)
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("pdf", filepath.Base(upload.FilePath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	fields := map[string]string{
		"title":   upload.Title,
		"author":  upload.Author,
		"genre":   upload.Genre,
		"user_id": upload.UserID,
	}
	for key, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(key, value); err != nil {
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	logging.LogRequest("CLI->ARCHIVE", c.baseURL, "upload", map[string]string{
		"file":   filepath.Base(upload.FilePath),
		"title":  upload.Title,
		"author": upload.Author,
	})

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mcp/upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	body, err := c.send(req, "upload")
	if err != nil {
		return "", err
	}

	// Accept both the snake_case and camelCase id keys seen in the wild.
	var resp struct {
		UploadID  string `json:"upload_id"`
		UploadID2 string `json:"uploadId"`
		Error     string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("archive: decode upload response: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("archive: %s", resp.Error)
	}
	id := resp.UploadID
	if id == "" {
		id = resp.UploadID2
	}
	if id == "" {
		return "", errors.New("archive: upload response carried no upload id")
	}
	return id, nil
}

// JobStatus fetches the status of an ingestion job, trying each status
// endpoint in priority order and returning the first success.
func (c *Client) JobStatus(ctx context.Context, uploadID string) (api.JobStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var lastErr error
	for _, pattern := range statusPaths {
		status, err := c.fetchStatus(ctx, fmt.Sprintf(pattern, uploadID))
		if err == nil {
			return status, nil
		}
		lastErr = err
	}
	return api.JobStatus{}, fmt.Errorf("%w: %v", ErrNoStatus, lastErr)
}

func (c *Client) fetchStatus(ctx context.Context, path string) (api.JobStatus, error) {
	logging.LogRequest("CLI->ARCHIVE", c.baseURL, "status", path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return api.JobStatus{}, err
	}

	body, err := c.send(req, "status")
	if err != nil {
		return api.JobStatus{}, err
	}

	var status api.JobStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return api.JobStatus{}, fmt.Errorf("archive: decode status: %w", err)
	}
	return status, nil
}

// Health probes the archive health endpoint.
func (c *Client) Health(ctx context.Context) (api.Health, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	logging.LogRequest("CLI->ARCHIVE", c.baseURL, "health", nil)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/mcp/health", nil)
	if err != nil {
		return api.Health{}, err
	}

	body, err := c.send(req, "health")
	if err != nil {
		return api.Health{}, err
	}

	var health api.Health
	if err := json.Unmarshal(body, &health); err != nil {
		return api.Health{}, fmt.Errorf("archive: decode health: %w", err)
	}
	return health, nil
}

// send executes the request and returns the body, folding non-2xx statuses
// into errors carrying the server's error message when present.
func (c *Client) send(req *http.Request, op string) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	logging.LogRequest("ARCHIVE->CLI", c.baseURL, op, body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
			return nil, fmt.Errorf("archive: %s (status %d)", payload.Error, resp.StatusCode)
		}
		return nil, fmt.Errorf("archive: unexpected status %d", resp.StatusCode)
	}
	return body, nil
}
