package api

import (
	"fmt"
	"net/http"

	"tempo/internal/services"
)

func (h *handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ActivityID int64  `json:"activity_id"`
		Name       string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	if req.ActivityID <= 0 {
		writeFailure(w, r, fmt.Errorf("%w: activity_id is required", errBadRequest))
		return
	}

	task, err := h.tasks.Create(r.Context(), services.CreateTaskParams{
		ActivityID: req.ActivityID,
		Name:       req.Name,
	})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, NewTaskView(*task))
}

func (h *handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	task, err := h.tasks.Get(r.Context(), id)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewTaskView(*task))
}

func (h *handler) handleRenameTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}

	task, err := h.tasks.Rename(r.Context(), id, req.Name)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewTaskView(*task))
}

func (h *handler) handleCloseTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	task, err := h.tasks.Close(r.Context(), id)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewTaskView(*task))
}

func (h *handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	if err := h.tasks.Delete(r.Context(), id); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"task_id": id})
}

func (h *handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	activityID, err := pathID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	tasks, err := h.tasks.ListByActivity(r.Context(), activityID)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TaskViews(tasks))
}
