// internal/api/archive/client_test.go
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mwiater/bookshelf/internal/api"
	"github.com/mwiater/bookshelf/internal/appconfig"
)

func newTestClient(serverURL string) *Client {
	return New(&appconfig.Config{ArchiveURL: serverURL, TimeoutSeconds: 5})
}

func TestUploadMultipart(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "dune.pdf")
	if err := os.WriteFile(pdfPath, []byte("%PDF-1.4 fake"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mcp/upload" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("title"); got != "Dune" {
			t.Fatalf("title = %q", got)
		}
		if got := r.FormValue("author"); got != "Frank Herbert" {
			t.Fatalf("author = %q", got)
		}
		if got := r.FormValue("user_id"); got != "u-1" {
			t.Fatalf("user_id = %q", got)
		}
		file, header, err := r.FormFile("pdf")
		if err != nil {
			t.Fatalf("missing pdf part: %v", err)
		}
		defer file.Close()
		if header.Filename != "dune.pdf" {
			t.Fatalf("filename = %q", header.Filename)
		}
		_, _ = w.Write([]byte(`{"upload_id":"job-7","status":"started"}`))
	}))
	defer server.Close()

	id, err := newTestClient(server.URL).Upload(context.Background(), api.UploadRequest{
		FilePath: pdfPath,
		Title:    "Dune",
		Author:   "Frank Herbert",
		UserID:   "u-1",
	})
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if id != "job-7" {
		t.Fatalf("upload id = %q, want job-7", id)
	}
}

func TestUploadServerError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "x.pdf")
	if err := os.WriteFile(pdfPath, []byte("x"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Missing required fields: pdf, user_id, title, author"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Upload(context.Background(), api.UploadRequest{FilePath: pdfPath})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestJobStatusPrimaryEndpoint(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mcp/status/job-1" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"upload_id":"job-1","status":"embedding","processed_chunks":3,"total_chunks":9}`))
	}))
	defer server.Close()

	status, err := newTestClient(server.URL).JobStatus(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("JobStatus returned error: %v", err)
	}
	if status.Status != "embedding" || status.ProcessedChunks != 3 || status.TotalChunks != 9 {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestJobStatusFallsBackToLegacyEndpoint(t *testing.T) {
	t.Parallel()

	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/mcp/status/job-2" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"upload_id not found"}`))
			return
		}
		if r.URL.Path == "/status/job-2" {
			_, _ = w.Write([]byte(`{"upload_id":"job-2","status":"done"}`))
			return
		}
		t.Fatalf("unexpected path: %s", r.URL.Path)
	}))
	defer server.Close()

	status, err := newTestClient(server.URL).JobStatus(context.Background(), "job-2")
	if err != nil {
		t.Fatalf("JobStatus returned error: %v", err)
	}
	if status.Status != "done" {
		t.Fatalf("unexpected status: %+v", status)
	}
	if len(paths) != 2 || paths[0] != "/mcp/status/job-2" || paths[1] != "/status/job-2" {
		t.Fatalf("endpoints not tried in priority order: %v", paths)
	}
}

func TestJobStatusBothEndpointsFail(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).JobStatus(context.Background(), "job-3")
	if !errors.Is(err, ErrNoStatus) {
		t.Fatalf("expected ErrNoStatus, got %v", err)
	}
}

func TestSearchReturnsRawBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mcp/search" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"answer":"found it","results":[{"meta":{"title":"Dune"}}]}`))
	}))
	defer server.Close()

	raw, err := newTestClient(server.URL).Search(context.Background(), "spice", 4, "")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("raw body should be valid JSON: %v", err)
	}
	if resp["answer"] != "found it" {
		t.Fatalf("unexpected body: %s", raw)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mcp/health" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"ok","indexed_vectors":812}`))
	}))
	defer server.Close()

	health, err := newTestClient(server.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("Health returned error: %v", err)
	}
	if health.Status != "ok" || health.IndexedVectors != 812 {
		t.Fatalf("unexpected health: %+v", health)
	}
}
