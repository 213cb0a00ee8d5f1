// internal/api/library/client.go
// Package library implements the HTTP client for the BookShelf library API:
// auth, hybrid natural-language search, and the book/user admin endpoints.
package library

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mwiater/bookshelf/internal/api"
	"github.com/mwiater/bookshelf/internal/appconfig"
	"github.com/mwiater/bookshelf/internal/logging"
)

// ErrInvalidCredentials is returned by Login when the library rejects the
// email/password pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrMalformedResponse mirrors api.ErrMalformedResponse for callers that
// only import this package.
var ErrMalformedResponse = api.ErrMalformedResponse

// Client talks to the library API.
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
		baseURL: cfg.LibraryBaseURL(),
		timeout: timeout,
	}
}

// Search dispatches a free-text query to the hybrid search endpoint and
// returns the raw body for the normalizer to interpret.
func (c *Client) Search(ctx context.Context, query string, resultCount int, userID string) (json.RawMessage, error) {
	payload := map[string]any{"query": query, "top_k": resultCount}
	if userID != "" {
		payload["user_id"] = userID
	}
	body, err := c.do(ctx, http.MethodPost, "/search", "search", payload)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Login exchanges credentials for the account role.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.request(ctx, http.MethodPost, "/login", "login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return "", readErr
	}
	logging.LogRequest("LIBRARY->CLI", c.baseURL, "login", data)

	if resp.StatusCode == http.StatusUnauthorized {
		return "", ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return "", serverError(resp.StatusCode, data)
	}

	var account struct {
		Message string `json:"message"`
		Role    string `json:"role"`
	}
	if err := json.Unmarshal(data, &account); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if account.Role == "" {
		account.Role = "user"
	}
	return account.Role, nil
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, username, email, password, phone string) error {
	_, err := c.do(ctx, http.MethodPost, "/signup", "signup", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
		"phone":    phone,
	})
	return err
}

// ListBooks fetches the public catalog listing.
func (c *Client) ListBooks(ctx context.Context) ([]api.Book, error) {
	body, err := c.do(ctx, http.MethodGet, "/books", "books", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Books *[]api.Book `json:"books"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Books == nil {
		return nil, fmt.Errorf("%w: missing books field", ErrMalformedResponse)
	}
	return *resp.Books, nil
}

// AddBook creates a catalog entry. Title and author are required by the server.
func (c *Client) AddBook(ctx context.Context, title, author, genre string) error {
	_, err := c.do(ctx, http.MethodPost, "/admin/add_book", "add_book", map[string]string{
		"title":  title,
		"author": author,
		"genre":  genre,
	})
	return err
}

// EditBook updates the provided fields of a book and reports affected rows.
func (c *Client) EditBook(ctx context.Context, id int64, fields api.BookFields) (int, error) {
	body, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/edit_book/%d", id), "edit_book", fields)
	if err != nil {
		return 0, err
	}
	return affectedRows(body)
}

// DeleteBook removes a book and reports affected rows.
func (c *Client) DeleteBook(ctx context.Context, id int64) (int, error) {
	body, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/delete_book/%d", id), "delete_book", nil)
	if err != nil {
		return 0, err
	}
	return affectedRows(body)
}

// ListUsers fetches all accounts. The endpoint is admin-only by convention;
// the server does not enforce it, so the CLI gates on the session role.
func (c *Client) ListUsers(ctx context.Context) ([]api.User, error) {
	body, err := c.do(ctx, http.MethodGet, "/admin/users", "users", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Users *[]api.User `json:"users"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Users == nil {
		return nil, fmt.Errorf("%w: missing users field", ErrMalformedResponse)
	}
	return *resp.Users, nil
}

// AddUser creates an account with an explicit role.
func (c *Client) AddUser(ctx context.Context, username, email, password, phone, role string) error {
	_, err := c.do(ctx, http.MethodPost, "/admin/add_user", "add_user", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
		"phone":    phone,
		"role":     role,
	})
	return err
}

// EditUser updates the provided fields of an account and reports affected rows.
func (c *Client) EditUser(ctx context.Context, id int64, fields api.UserFields) (int, error) {
	body, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/edit_user/%d", id), "edit_user", fields)
	if err != nil {
		return 0, err
	}
	return affectedRows(body)
}

// DeleteUser removes an account and reports affected rows.
func (c *Client) DeleteUser(ctx context.Context, id int64) (int, error) {
	body, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/delete_user/%d", id), "delete_user", nil)
	if err != nil {
		return 0, err
	}
	return affectedRows(body)
}

// do issues a request and returns the response body, converting non-2xx
// statuses into errors carrying the server's error message when present.
func (c *Client) do(ctx context.Context, method, path, op string, payload any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.request(ctx, method, path, op, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	logging.LogRequest("LIBRARY->CLI", c.baseURL, op, data)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serverError(resp.StatusCode, data)
	}
	return data, nil
}

func (c *Client) request(ctx context.Context, method, path, op string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		logging.LogRequest("CLI->LIBRARY", c.baseURL, op, data)
		body = bytes.NewReader(data)
	} else {
		logging.LogRequest("CLI->LIBRARY", c.baseURL, op, nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.client.Do(req)
}

// affectedRows decodes the {"affected": n} field shared by edit and delete
// responses. A missing field is zero, not an error.
func affectedRows(body []byte) (int, error) {
	var resp struct {
		Affected int `json:"affected"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return resp.Affected, nil
}

// serverError extracts the {"error": "..."} message the library attaches to
// failures, falling back to the HTTP status.
func serverError(status int, body []byte) error {
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != "" {
		return fmt.Errorf("library: %s (status %d)", resp.Error, status)
	}
	return fmt.Errorf("library: unexpected status %d", status)
}
