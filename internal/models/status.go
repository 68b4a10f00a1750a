package models

import "time"

// Indicator is the state of one status element (API health or database).
type Indicator struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Class is the CSS class the page uses for the indicator.
func (i Indicator) Class() string {
	if i.Message == "" {
		return "status-text"
	}
	if i.OK {
		return "status-text success"
	}
	return "status-text error"
}

// Notice is the transient banner shown under the user form.
type Notice struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func (n Notice) Class() string {
	if n.Message == "" {
		return "message"
	}
	if n.OK {
		return "message success"
	}
	return "message error"
}

// Event kinds recorded in the activity journal.
const (
	EventHealth   = "health"
	EventDatabase = "database"
	EventList     = "list"
	EventCreate   = "create"
	EventUpdate   = "update"
	EventDelete   = "delete"
)

// Event is one recorded outcome of a console operation.
type Event struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	OK        bool      `json:"ok"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
