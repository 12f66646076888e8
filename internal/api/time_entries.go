package api

import "net/http"

func (h *handler) handleStartEntry(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	entry, err := h.entries.Start(r.Context(), taskID)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, NewTimeEntryView(*entry))
}

func (h *handler) handleStopEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	entry, err := h.entries.Stop(r.Context(), id)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewTimeEntryView(*entry))
}

func (h *handler) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	entry, err := h.entries.Get(r.Context(), id)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewTimeEntryView(*entry))
}

func (h *handler) handleListEntries(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	entries, err := h.entries.ListByTask(r.Context(), taskID)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TimeEntryViews(entries))
}

func (h *handler) handleActiveEntry(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	entry, err := h.entries.Active(r.Context(), taskID)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewTimeEntryView(*entry))
}
