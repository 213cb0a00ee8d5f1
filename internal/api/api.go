// internal/api/api.go

// Package api defines the shared types and narrow interfaces for talking to
// the two BookShelf services: the library API (auth, catalog, hybrid search)
// and the archive service (ingestion, semantic search). Concrete HTTP clients
// live in the library and archive subpackages; the core packages depend only
// on the interfaces declared here.
package api

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrMalformedResponse marks a 2xx response whose body did not carry the
// fields the client expected. Callers treat it differently from transport
// failures: the service answered, the answer was just unreadable.
var ErrMalformedResponse = errors.New("malformed response")

// Book is a catalog entry owned by the library API. The client never mutates
// it beyond the CRUD calls; vector counts come from the archive index.
type Book struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre,omitempty"`
	VectorCount int    `json:"vectorCount,omitempty"`
}

// User is an account row as returned by the library admin endpoints.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}

// BookFields carries the optional fields of a book edit. Nil pointers are
// omitted from the request so the server leaves them untouched.
type BookFields struct {
	Title  *string `json:"title,omitempty"`
	Author *string `json:"author,omitempty"`
	Genre  *string `json:"genre,omitempty"`
}

// UserFields carries the optional fields of a user edit.
type UserFields struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Role     *string `json:"role,omitempty"`
}

// JobStatus is one status snapshot for an ingestion job.
type JobStatus struct {
	UploadID        string `json:"upload_id"`
	Status          string `json:"status"`
	Message         string `json:"message,omitempty"`
	Error           string `json:"error,omitempty"`
	ProcessedChunks int    `json:"processed_chunks,omitempty"`
	TotalChunks     int    `json:"total_chunks,omitempty"`
	TotalVectors    int    `json:"total_vectors,omitempty"`
}

// Health is the archive service health snapshot.
type Health struct {
	Status         string `json:"status"`
	IndexedVectors int    `json:"indexed_vectors"`
}

// UploadRequest describes one PDF handed to the archive for ingestion.
type UploadRequest struct {
	FilePath string
	Title    string
	Author   string
	Genre    string
	UserID   string
}

// Searcher dispatches a free-text query and returns the raw response body.
// Both services implement it; the shape of the body varies, which is why the
// normalizer, not the client, interprets it.
type Searcher interface {
	Search(ctx context.Context, query string, resultCount int, userID string) (json.RawMessage, error)
}

// BookLister fetches the authoritative catalog listing.
type BookLister interface {
	ListBooks(ctx context.Context) ([]Book, error)
}

// BookDeleter removes a single book and reports how many rows were affected.
type BookDeleter interface {
	DeleteBook(ctx context.Context, id int64) (int, error)
}

// StatusFetcher retrieves the current status of an ingestion job.
type StatusFetcher interface {
	JobStatus(ctx context.Context, uploadID string) (JobStatus, error)
}
