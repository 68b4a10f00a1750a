package userapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayush/user-console/internal/models"
)

// APIError is a non-2xx answer from the user API. Message holds the body's
// "error" field and is empty when the body carried none.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("user-api %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("user-api %s %s returned %d", e.Method, e.Path, e.StatusCode)
}

// ErrorMessage returns the API supplied error text carried by err, if any.
func ErrorMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}

// checkResp returns an *APIError if the status is not 2xx, decoding the
// {"error": "..."} body when there is one.
func checkResp(resp *http.Response, method, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode}
	body, _ := io.ReadAll(resp.Body)
	var e models.ErrorResponse
	if json.Unmarshal(body, &e) == nil {
		apiErr.Message = e.Error
	}
	return apiErr
}

// DatabaseStatus is the body of GET /database-status.
type DatabaseStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Connected reports whether the API reached its database.
func (s DatabaseStatus) Connected() bool {
	return s.Status == "connected"
}

// Client calls the user-management REST API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the API rooted at baseURL (including the
// /api prefix). A zero timeout leaves requests bounded only by the transport.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Health calls GET /health. Any 2xx answer with a JSON body means the API
// is running; the body itself is returned for diagnostics. A non-2xx answer
// is an error even when it carries a JSON body.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkResp(resp, http.MethodGet, "/health"); err != nil {
		return nil, err
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("user-api /health: decode: %w", err)
	}
	return body, nil
}

// DatabaseStatus calls GET /database-status. The body is decoded whatever
// the status code, since the API reports a lost connection with a 500.
func (c *Client) DatabaseStatus(ctx context.Context) (*DatabaseStatus, error) {
	resp, err := c.do(ctx, http.MethodGet, "/database-status", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var status DatabaseStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("user-api /database-status: decode: %w", err)
	}
	return &status, nil
}

// ListUsers calls GET /users.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkResp(resp, http.MethodGet, "/users"); err != nil {
		return nil, err
	}

	var result models.ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("user-api /users: decode: %w", err)
	}
	return result.Data, nil
}

// GetUser calls GET /users/{id}.
func (c *Client) GetUser(ctx context.Context, id int) (*models.User, error) {
	return c.userCall(ctx, http.MethodGet, userPath(id), nil)
}

// CreateUser calls POST /users.
func (c *Client) CreateUser(ctx context.Context, req models.CreateRequest) (*models.User, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("user-api /users: encode: %w", err)
	}
	return c.userCall(ctx, http.MethodPost, "/users", body)
}

// UpdateUser calls PUT /users/{id}.
func (c *Client) UpdateUser(ctx context.Context, id int, req models.UpdateRequest) (*models.User, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("user-api %s: encode: %w", userPath(id), err)
	}
	return c.userCall(ctx, http.MethodPut, userPath(id), body)
}

// DeleteUser calls DELETE /users/{id}.
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	path := userPath(id)
	resp, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkResp(resp, http.MethodDelete, path); err != nil {
		return err
	}

	var confirmation map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&confirmation); err != nil {
		return fmt.Errorf("user-api %s: decode: %w", path, err)
	}
	return nil
}

func (c *Client) userCall(ctx context.Context, method, path string, body []byte) (*models.User, error) {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkResp(resp, method, path); err != nil {
		return nil, err
	}

	var result models.UserResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("user-api %s: decode: %w", path, err)
	}
	return &result.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("user-api %s: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user-api %s: %w", path, err)
	}
	return resp, nil
}

func userPath(id int) string {
	return "/users/" + strconv.Itoa(id)
}
