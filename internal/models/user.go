package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// User is a record owned by the remote user-management API.
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt Timestamp `json:"created_at"`
}

// CreateRequest is the JSON body for POST /users.
type CreateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UpdateRequest is the JSON body for PUT /users/{id}. Empty fields are left
// untouched by the API.
type UpdateRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// ListResponse is the envelope returned by GET /users.
type ListResponse struct {
	Status string `json:"status"`
	Data   []User `json:"data"`
}

// UserResponse is the envelope returned by create, get and update.
type UserResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    User   `json:"data"`
}

// ErrorResponse is the body the API sends with a non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

// timestampLayouts are the formats the API has been seen to emit:
// RFC 1123 from list/get, Python str(datetime) from create/update.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC1123,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

// Timestamp is a creation time as sent by the API. Raw keeps the original
// text so an unparseable value can still be shown.
type Timestamp struct {
	Time time.Time
	Raw  string
}

// ParseTimestamp parses s with every known layout.
func ParseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t, Raw: s}
		}
	}
	return Timestamp{Raw: s}
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t = ParseTimestamp(s)
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return json.Marshal(t.Raw)
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// Format renders the time like "Jan 2, 2006, 03:04 PM", or the raw text
// when it could not be parsed.
func (t Timestamp) Format() string {
	if t.Time.IsZero() {
		if t.Raw == "" {
			return "Invalid Date"
		}
		return t.Raw
	}
	return t.Time.Format("Jan 2, 2006, 03:04 PM")
}
