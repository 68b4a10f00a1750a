package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/user-console/internal/middleware"
	"github.com/ayush/user-console/internal/models"
	"github.com/ayush/user-console/internal/userapi"
)

const pageTitle = "User Management Console"

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Handler serves the console page and its form actions.
type Handler struct {
	ctrl *Controller
}

func NewHandler(ctrl *Controller) *Handler {
	return &Handler{ctrl: ctrl}
}

// Routes mounts the page routes on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Page)
	r.Post("/users", h.Create)
	r.Post("/users/refresh", h.Refresh)
	r.Get("/users/{id}/delete", h.ConfirmDelete)
	r.Post("/users/{id}/delete", h.Delete)
	r.Get("/users/{id}/edit", h.EditForm)
	r.Post("/users/{id}/edit", h.Edit)
}

// Page renders the console from the current display.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, Form{})
}

// Create handles the user form submit. A successful create redirects back
// to the page with a cleared form; a failure re-renders it with the
// submitted values kept.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sid := middleware.SessionID(r.Context())
	form, ok := h.ctrl.HandleFormSubmit(r.Context(), sid, r.PostFormValue("username"), r.PostFormValue("email"))
	if ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderPage(w, r, http.StatusUnprocessableEntity, form)
}

// Refresh reloads the user list.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.ctrl.LoadUsers(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ConfirmDelete renders the confirmation prompt for a delete.
func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	h.renderHTML(w, http.StatusOK, "confirm", confirmData{Title: pageTitle, Prompt: DeleteConfirmPrompt, ID: id})
}

// Delete performs the delete when the prompt was answered with confirm=yes.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	answer := r.PostFormValue("confirm")
	confirm := ConfirmFunc(func(context.Context, string) bool { return answer == "yes" })
	h.ctrl.DeleteUser(r.Context(), middleware.SessionID(r.Context()), id, confirm)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// EditForm renders the edit page for one user.
func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	user, err := h.ctrl.User(r.Context(), id)
	if err != nil {
		h.ctrl.log.Error().Err(err).Int("id", id).Msg("error fetching user")
		var apiErr *userapi.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, "user not available", http.StatusBadGateway)
		return
	}
	notice := h.ctrl.Notice(r.Context(), middleware.SessionID(r.Context()))
	h.renderHTML(w, http.StatusOK, "edit", editData{IDs: pageIDs, Title: pageTitle, User: *user, Notice: notice})
}

// Edit applies the edit form and returns to the page on success.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sid := middleware.SessionID(r.Context())
	if h.ctrl.EditUser(r.Context(), sid, id, r.PostFormValue("username"), r.PostFormValue("email")) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/users/"+strconv.Itoa(id)+"/edit", http.StatusSeeOther)
}

// stateResponse is the JSON body of GET /console/state.
type stateResponse struct {
	Display
	Notice models.Notice `json:"notice"`
}

// State returns the display and the caller's notice as JSON.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateResponse{
		Display: h.ctrl.Snapshot(),
		Notice:  h.ctrl.Notice(r.Context(), middleware.SessionID(r.Context())),
	})
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, form Form) {
	ctx := r.Context()
	h.renderHTML(w, status, "page", pageData{
		IDs:     pageIDs,
		Title:   pageTitle,
		Display: h.ctrl.Snapshot(),
		Form:    form,
		Notice:  h.ctrl.Notice(ctx, middleware.SessionID(ctx)),
		Events:  h.ctrl.RecentEvents(ctx),
	})
}

func (h *Handler) renderHTML(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := render(&buf, name, data); err != nil {
		h.ctrl.log.Error().Err(err).Str("template", name).Msg("render")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func userID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
