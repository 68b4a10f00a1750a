package userapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/user-console/internal/models"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", 0)
}

func TestHealth(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"healthy","message":"Backend API is running"}`))
	})
	c := newTestClient(t, mux)

	body, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", body["status"])
}

func TestHealthNon2xxIsError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"starting"}`))
	})
	c := newTestClient(t, mux)

	_, err := c.Health(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestHealthNotJSON(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>proxy error</html>`))
	})
	c := newTestClient(t, mux)

	_, err := c.Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestDatabaseStatusDecodedOnServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/database-status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":"disconnected","message":"Failed to connect"}`))
	})
	c := newTestClient(t, mux)

	status, err := c.DatabaseStatus(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Connected())
	assert.Equal(t, "disconnected", status.Status)
}

func TestListUsers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","data":[
			{"id":1,"username":"ada","email":"ada@example.com","created_at":"Tue, 05 Mar 2024 14:07:00 GMT"},
			{"id":2,"username":"bob","email":"bob@example.com","created_at":"Wed, 06 Mar 2024 09:00:00 GMT"}]}`))
	})
	c := newTestClient(t, mux)

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "ada", users[0].Username)
	assert.Equal(t, 2, users[1].ID)
	assert.Equal(t, 2024, users[1].CreatedAt.Time.Year())
}

func TestCreateUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req models.CreateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.CreateRequest{Username: "ada", Email: "ada@example.com"}, req)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"status":"success","message":"User created successfully",
			"data":{"id":7,"username":"ada","email":"ada@example.com","created_at":"2024-03-05 14:07:00.123456"}}`))
	})
	c := newTestClient(t, mux)

	u, err := c.CreateUser(context.Background(), models.CreateRequest{Username: "ada", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 7, u.ID)
	assert.Equal(t, "Mar 5, 2024, 02:07 PM", u.CreatedAt.Format())
}

func TestCreateUserConflict(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"User with this email already exists"}`))
	})
	c := newTestClient(t, mux)

	_, err := c.CreateUser(context.Background(), models.CreateRequest{Username: "ada", Email: "ada@example.com"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)

	msg, ok := ErrorMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "User with this email already exists", msg)
}

func TestCreateUserMalformedErrorBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`bad gateway`))
	})
	c := newTestClient(t, mux)

	_, err := c.CreateUser(context.Background(), models.CreateRequest{Username: "a", Email: "b"})
	require.Error(t, err)
	_, ok := ErrorMessage(err)
	assert.False(t, ok)
}

func TestUpdateUserOmitsEmptyFields(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.PathValue("id"))
		var raw map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, map[string]any{"email": "new@example.com"}, raw)
		w.Write([]byte(`{"status":"success","data":{"id":3,"username":"ada","email":"new@example.com"}}`))
	})
	c := newTestClient(t, mux)

	u, err := c.UpdateUser(context.Background(), 3, models.UpdateRequest{Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", u.Email)
}

func TestGetUserNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"User not found"}`))
	})
	c := newTestClient(t, mux)

	_, err := c.GetUser(context.Background(), 99)
	msg, ok := ErrorMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "User not found", msg)
}

func TestDeleteUser(t *testing.T) {
	var deleted string
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = r.PathValue("id")
		w.Write([]byte(`{"status":"success","message":"User deleted successfully"}`))
	})
	c := newTestClient(t, mux)

	require.NoError(t, c.DeleteUser(context.Background(), 12))
	assert.Equal(t, "12", deleted)
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := NewClient(srv.URL+"/api", 0)
	srv.Close()

	_, err := c.ListUsers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user-api /users")
}
