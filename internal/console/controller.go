package console

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ayush/user-console/internal/models"
	"github.com/ayush/user-console/internal/userapi"
)

// Element ids of the console page.
const (
	ElementAPIStatus      = "api-status"
	ElementDatabaseStatus = "database-status"
	ElementUserForm       = "user-form"
	ElementUsername       = "username"
	ElementEmail          = "email"
	ElementFormMessage    = "form-message"
	ElementUsersContainer = "users-container"
)

// Messages shown by the console.
const (
	MsgAPIRunning       = "API is running"
	MsgAPIDown          = "API is not responding"
	MsgDBConnected      = "Database connected"
	MsgDBDisconnected   = "Database disconnected"
	MsgDBFailed         = "Database connection failed"
	MsgFillAllFields    = "Please fill in all fields"
	MsgFillAnyField     = "Please fill in at least one field"
	MsgUserCreated      = "User created successfully"
	MsgCreateFailed     = "Error creating user"
	MsgUserUpdated      = "User updated successfully"
	MsgUpdateFailed     = "Error updating user"
	MsgUserDeleted      = "User deleted successfully"
	MsgDeleteFailed     = "Error deleting user"
	MsgLoadingUsers     = "Loading users..."
	MsgNoUsers          = "No users found. Create one to get started!"
	MsgUsersFailed      = "Error loading users. Please try again later."
	DeleteConfirmPrompt = "Are you sure you want to delete this user?"
)

const (
	defaultNoticeTTL     = 5 * time.Second
	defaultPollInterval  = 30 * time.Second
	recentEventsPageSize = 10
)

// UserAPI is the subset of the user-management API the console drives.
type UserAPI interface {
	Health(ctx context.Context) (map[string]any, error)
	DatabaseStatus(ctx context.Context) (*userapi.DatabaseStatus, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	CreateUser(ctx context.Context, req models.CreateRequest) (*models.User, error)
	UpdateUser(ctx context.Context, id int, req models.UpdateRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id int) error
}

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// UsersState is what the users container currently shows.
type UsersState string

const (
	UsersLoading UsersState = "loading"
	UsersLoaded  UsersState = "loaded"
	UsersEmpty   UsersState = "empty"
	UsersError   UsersState = "error"
)

// UsersView is the content of the users container.
type UsersView struct {
	State UsersState    `json:"state"`
	Users []models.User `json:"users,omitempty"`
}

// Message is the placeholder text for non-card states.
func (v UsersView) Message() string {
	switch v.State {
	case UsersLoading:
		return MsgLoadingUsers
	case UsersEmpty:
		return MsgNoUsers
	case UsersError:
		return MsgUsersFailed
	}
	return ""
}

// Display is the state shared by every viewer of the console.
type Display struct {
	APIStatus      models.Indicator `json:"api_status"`
	DatabaseStatus models.Indicator `json:"database_status"`
	Users          UsersView        `json:"users"`
	FormAttached   bool             `json:"form_attached"`
}

// Form holds the values the user form should show after a submit. A zero
// Form is a cleared form.
type Form struct {
	Username string
	Email    string
}

// Options tune a Controller. Zero values select the defaults.
type Options struct {
	NoticeTTL    time.Duration
	PollInterval time.Duration
}

// Controller owns the console display and runs every console operation.
// Each operation is a single request/render cycle; overlapping completions
// overwrite the element they target, last writer wins.
type Controller struct {
	api     UserAPI
	notices NoticeStore
	journal Journal
	log     zerolog.Logger

	noticeTTL    time.Duration
	pollInterval time.Duration

	mu      sync.RWMutex
	display Display
}

func NewController(api UserAPI, notices NoticeStore, journal Journal, log zerolog.Logger, opts Options) *Controller {
	if opts.NoticeTTL <= 0 {
		opts.NoticeTTL = defaultNoticeTTL
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if journal == nil {
		journal = NopJournal{}
	}
	return &Controller{
		api:          api,
		notices:      notices,
		journal:      journal,
		log:          log.With().Str("component", "console").Logger(),
		noticeTTL:    opts.NoticeTTL,
		pollInterval: opts.PollInterval,
		display:      Display{Users: UsersView{State: UsersLoading}},
	}
}

// Init performs the page-load sequence: both status probes and the user
// list are fetched concurrently, then the form is marked as attached.
func (c *Controller) Init(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error { c.CheckAPIHealth(ctx); return nil })
	g.Go(func() error { c.CheckDatabaseStatus(ctx); return nil })
	g.Go(func() error { c.LoadUsers(ctx); return nil })
	_ = g.Wait()

	c.mu.Lock()
	c.display.FormAttached = true
	c.mu.Unlock()
	c.log.Info().Msg("console initialized")
}

// CheckAPIHealth probes the API liveness endpoint. No retry.
func (c *Controller) CheckAPIHealth(ctx context.Context) {
	body, err := c.api.Health(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("error checking API health")
		c.setIndicator(ctx, ElementAPIStatus, models.EventHealth, models.Indicator{Message: MsgAPIDown})
		return
	}
	c.log.Debug().Interface("body", body).Msg("API health")
	c.setIndicator(ctx, ElementAPIStatus, models.EventHealth, models.Indicator{OK: true, Message: MsgAPIRunning})
}

// CheckDatabaseStatus probes the API database readiness endpoint.
func (c *Controller) CheckDatabaseStatus(ctx context.Context) {
	status, err := c.api.DatabaseStatus(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("error checking database status")
		c.setIndicator(ctx, ElementDatabaseStatus, models.EventDatabase, models.Indicator{Message: MsgDBFailed})
		return
	}
	c.log.Debug().Str("status", status.Status).Str("message", status.Message).Msg("database status")
	if status.Connected() {
		c.setIndicator(ctx, ElementDatabaseStatus, models.EventDatabase, models.Indicator{OK: true, Message: MsgDBConnected})
		return
	}
	c.setIndicator(ctx, ElementDatabaseStatus, models.EventDatabase, models.Indicator{Message: MsgDBDisconnected})
}

// LoadUsers replaces the users container with the loading placeholder,
// fetches the collection and renders the result.
func (c *Controller) LoadUsers(ctx context.Context) {
	c.setUsers(UsersView{State: UsersLoading})

	users, err := c.api.ListUsers(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("error loading users")
		c.setUsers(UsersView{State: UsersError})
		c.record(ctx, models.EventList, false, err.Error())
		return
	}
	c.log.Debug().Int("count", len(users)).Msg("users loaded")
	if len(users) == 0 {
		c.setUsers(UsersView{State: UsersEmpty})
		return
	}
	c.setUsers(UsersView{State: UsersLoaded, Users: users})
}

// HandleFormSubmit validates and submits the user form. It returns the
// values the form should keep (a cleared Form on success) and whether the
// user was created.
func (c *Controller) HandleFormSubmit(ctx context.Context, sessionID, username, email string) (Form, bool) {
	submitted := Form{Username: username, Email: email}
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" {
		c.showMessage(ctx, sessionID, MsgFillAllFields, false)
		return submitted, false
	}

	user, err := c.api.CreateUser(ctx, models.CreateRequest{Username: username, Email: email})
	if err != nil {
		c.log.Error().Err(err).Str("username", username).Msg("error creating user")
		msg := MsgCreateFailed
		if apiMsg, ok := userapi.ErrorMessage(err); ok {
			msg = apiMsg
		}
		c.showMessage(ctx, sessionID, msg, false)
		c.record(ctx, models.EventCreate, false, msg)
		return submitted, false
	}

	c.log.Info().Int("id", user.ID).Str("username", user.Username).Msg("user created")
	c.showMessage(ctx, sessionID, MsgUserCreated, true)
	c.record(ctx, models.EventCreate, true, "created user "+user.Username)
	c.LoadUsers(ctx)
	return Form{}, true
}

// EditUser applies a partial update. Blank fields are left unchanged, but
// at least one must be set.
func (c *Controller) EditUser(ctx context.Context, sessionID string, id int, username, email string) bool {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" && email == "" {
		c.showMessage(ctx, sessionID, MsgFillAnyField, false)
		return false
	}

	user, err := c.api.UpdateUser(ctx, id, models.UpdateRequest{Username: username, Email: email})
	if err != nil {
		c.log.Error().Err(err).Int("id", id).Msg("error updating user")
		msg := MsgUpdateFailed
		if apiMsg, ok := userapi.ErrorMessage(err); ok {
			msg = apiMsg
		}
		c.showMessage(ctx, sessionID, msg, false)
		c.record(ctx, models.EventUpdate, false, msg)
		return false
	}

	c.log.Info().Int("id", user.ID).Msg("user updated")
	c.showMessage(ctx, sessionID, MsgUserUpdated, true)
	c.record(ctx, models.EventUpdate, true, "updated user "+user.Username)
	c.LoadUsers(ctx)
	return true
}

// User fetches a single user for the edit page.
func (c *Controller) User(ctx context.Context, id int) (*models.User, error) {
	return c.api.GetUser(ctx, id)
}

// DeleteUser deletes a user once the confirmer approves. A declined
// confirmation issues no request.
func (c *Controller) DeleteUser(ctx context.Context, sessionID string, id int, confirm Confirmer) bool {
	if confirm == nil || !confirm.Confirm(ctx, DeleteConfirmPrompt) {
		c.log.Debug().Int("id", id).Msg("delete not confirmed")
		return false
	}

	if err := c.api.DeleteUser(ctx, id); err != nil {
		c.log.Error().Err(err).Int("id", id).Msg("error deleting user")
		c.showMessage(ctx, sessionID, MsgDeleteFailed, false)
		c.record(ctx, models.EventDelete, false, err.Error())
		return false
	}

	c.log.Info().Int("id", id).Msg("user deleted")
	c.showMessage(ctx, sessionID, MsgUserDeleted, true)
	c.record(ctx, models.EventDelete, true, "deleted user "+strconv.Itoa(id))
	c.LoadUsers(ctx)
	return true
}

// Snapshot returns a copy of the shared display.
func (c *Controller) Snapshot() Display {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d := c.display
	d.Users.Users = append([]models.User(nil), c.display.Users.Users...)
	return d
}

// Notice returns the session's current banner; empty once it has expired.
func (c *Controller) Notice(ctx context.Context, sessionID string) models.Notice {
	n, err := c.notices.Get(ctx, sessionID)
	if err != nil {
		c.log.Warn().Err(err).Msg("read notice")
		return models.Notice{}
	}
	return n
}

// RecentEvents returns the newest journal entries.
func (c *Controller) RecentEvents(ctx context.Context) []models.Event {
	events, err := c.journal.Recent(ctx, recentEventsPageSize)
	if err != nil {
		c.log.Warn().Err(err).Msg("read journal")
		return nil
	}
	return events
}

func (c *Controller) showMessage(ctx context.Context, sessionID, msg string, ok bool) {
	if err := c.notices.Set(ctx, sessionID, models.Notice{OK: ok, Message: msg}, c.noticeTTL); err != nil {
		c.log.Warn().Err(err).Str("element", ElementFormMessage).Msg("store notice")
	}
}

// setIndicator updates a status element and journals the probe when its
// outcome changed.
func (c *Controller) setIndicator(ctx context.Context, element, kind string, ind models.Indicator) {
	c.mu.Lock()
	target := &c.display.APIStatus
	if element == ElementDatabaseStatus {
		target = &c.display.DatabaseStatus
	}
	changed := *target != ind
	*target = ind
	c.mu.Unlock()

	if changed {
		c.record(ctx, kind, ind.OK, ind.Message)
	}
}

func (c *Controller) setUsers(v UsersView) {
	c.mu.Lock()
	c.display.Users = v
	c.mu.Unlock()
}

func (c *Controller) record(ctx context.Context, kind string, ok bool, msg string) {
	ev := models.Event{Kind: kind, OK: ok, Message: msg, CreatedAt: time.Now().UTC()}
	if err := c.journal.Record(ctx, ev); err != nil {
		c.log.Warn().Err(err).Str("kind", kind).Msg("journal record")
	}
}
