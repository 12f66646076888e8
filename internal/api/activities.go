package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"tempo/internal/domain"
	"tempo/internal/services"
)

func (h *handler) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name             string   `json:"name"`
		OriginalEstimate *float64 `json:"original_estimate"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	if req.OriginalEstimate == nil {
		writeFailure(w, r, fmt.Errorf("%w: original_estimate is required", errBadRequest))
		return
	}

	activity, err := h.activities.Create(r.Context(), services.CreateActivityParams{
		Name:             req.Name,
		OriginalEstimate: *req.OriginalEstimate,
	})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, NewActivityView(*activity))
}

func (h *handler) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	activity, err := h.activities.Get(r.Context(), id)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewActivityView(*activity))
}

func (h *handler) handleListActivities(w http.ResponseWriter, r *http.Request) {
	filter, err := parseActivityFilter(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	activities, err := h.activities.List(r.Context(), filter)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ActivityViews(activities))
}

// parseActivityFilter reads ?finalized=true|false|all (default false) and ?name=
func parseActivityFilter(r *http.Request) (domain.ActivityFilter, error) {
	query := r.URL.Query()
	filter := domain.ActivityFilter{Name: query.Get("name")}

	raw := strings.ToLower(strings.TrimSpace(query.Get("finalized")))
	switch raw {
	case "all":
	case "":
		finalized := false
		filter.Finalized = &finalized
	default:
		finalized, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("%w: finalized must be true, false or all", errBadRequest)
		}
		filter.Finalized = &finalized
	}
	return filter, nil
}

func (h *handler) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	var req struct {
		Finalized        *bool    `json:"finalized"`
		MoneyReceived    *bool    `json:"money_received"`
		Name             *string  `json:"name"`
		OriginalEstimate *float64 `json:"original_estimate"`
		PricePerHour     *float64 `json:"price_per_hour"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}

	activity, err := h.activities.Update(r.Context(), id, domain.ActivityUpdate{
		Finalized:        req.Finalized,
		MoneyReceived:    req.MoneyReceived,
		Name:             req.Name,
		OriginalEstimate: req.OriginalEstimate,
		PricePerHour:     req.PricePerHour,
	})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewActivityView(*activity))
}

func (h *handler) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	if err := h.activities.Delete(r.Context(), id); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"activity_id": id})
}
