package api

import (
	"context"
	"net/http"

	"tempo/internal/services"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterParams contains the dependencies of the HTTP API
type RouterParams struct {
	Activities *services.ActivityService
	Entries    *services.TimeEntryService
	Store      Pinger
	Tasks      *services.TaskService
}

type handler struct {
	activities *services.ActivityService
	entries    *services.TimeEntryService
	store      Pinger
	tasks      *services.TaskService
}

// NewRouter builds the JSON API. Every route answers with and without a
// trailing slash.
func NewRouter(params RouterParams) http.Handler {
	h := &handler{
		activities: params.Activities,
		entries:    params.Entries,
		store:      params.Store,
		tasks:      params.Tasks,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.handleHealth)

	// Activities
	route(mux, "POST", "/api/activities", h.handleCreateActivity)
	route(mux, "GET", "/api/activities", h.handleListActivities)
	route(mux, "GET", "/api/activities/{id}", h.handleGetActivity)
	route(mux, "PUT", "/api/activities/{id}", h.handleUpdateActivity)
	route(mux, "DELETE", "/api/activities/{id}", h.handleDeleteActivity)

	// Tasks
	route(mux, "POST", "/api/tasks", h.handleCreateTask)
	route(mux, "GET", "/api/tasks/{id}", h.handleGetTask)
	route(mux, "PUT", "/api/tasks/{id}", h.handleRenameTask)
	route(mux, "PUT", "/api/tasks/close/{id}", h.handleCloseTask)
	route(mux, "DELETE", "/api/tasks/{id}", h.handleDeleteTask)
	route(mux, "GET", "/api/tasks/activity/{id}", h.handleListTasks)

	// Time entries
	route(mux, "POST", "/api/time_entries/{id}/start", h.handleStartEntry)
	route(mux, "PUT", "/api/time_entries/{id}/stop", h.handleStopEntry)
	route(mux, "GET", "/api/time_entries/{id}", h.handleGetEntry)
	route(mux, "GET", "/api/time_entries/task/{id}", h.handleListEntries)
	route(mux, "GET", "/api/time_entries/task/{id}/playing", h.handleActiveEntry)

	return withRecovery(withRequestLog(mux))
}

// route registers path both bare and with a trailing slash
func route(mux *http.ServeMux, method, path string, fn http.HandlerFunc) {
	mux.HandleFunc(method+" "+path, fn)
	mux.HandleFunc(method+" "+path+"/{$}", fn)
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
