package handlers

import (
	"net/http"

	"couple-journal-backend/internal/services"
	"couple-journal-backend/internal/validation"
)

// TimelineHandler handles timeline entry HTTP requests
type TimelineHandler struct {
	timeline *services.TimelineService
}

func NewTimelineHandler(timeline *services.TimelineService) *TimelineHandler {
	return &TimelineHandler{timeline: timeline}
}

// List handles GET /api/v1/relationships/{id}/timeline
func (h *TimelineHandler) List(w http.ResponseWriter, r *http.Request) error {
	userID, relationshipID, err := caller(r)
	if err != nil {
		return err
	}
	f, page, err := validation.TimelineListQuery(r.URL.Query())
	if err != nil {
		return err
	}

	list, err := h.timeline.List(r.Context(), userID, relationshipID, f, page)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, list)
	return nil
}

// Create handles POST /api/v1/relationships/{id}/timeline
func (h *TimelineHandler) Create(w http.ResponseWriter, r *http.Request) error {
	userID, relationshipID, err := caller(r)
	if err != nil {
		return err
	}
	var req validation.TimelineEntryCreate
	if err := validation.DecodeBody(r, &req); err != nil {
		return err
	}

	e, err := h.timeline.Create(r.Context(), userID, relationshipID, req.Model(userID))
	if err != nil {
		return err
	}
	respond(w, http.StatusCreated, e)
	return nil
}

// Get handles GET /api/v1/timeline-entries/{id}
func (h *TimelineHandler) Get(w http.ResponseWriter, r *http.Request) error {
	userID, id, err := caller(r)
	if err != nil {
		return err
	}
	e, err := h.timeline.Get(r.Context(), userID, id)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, e)
	return nil
}

// Update handles PATCH /api/v1/timeline-entries/{id}
func (h *TimelineHandler) Update(w http.ResponseWriter, r *http.Request) error {
	userID, id, err := caller(r)
	if err != nil {
		return err
	}
	var req validation.TimelineEntryUpdate
	if err := validation.DecodeBody(r, &req); err != nil {
		return err
	}

	e, err := h.timeline.Update(r.Context(), userID, id, req.Patch())
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, e)
	return nil
}

// Delete handles DELETE /api/v1/timeline-entries/{id}
func (h *TimelineHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	userID, id, err := caller(r)
	if err != nil {
		return err
	}
	if err := h.timeline.Delete(r.Context(), userID, id); err != nil {
		return err
	}
	noContent(w)
	return nil
}
