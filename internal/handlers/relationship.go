package handlers

import (
	"net/http"

	"couple-journal-backend/internal/middleware"
	"couple-journal-backend/internal/services"
	"couple-journal-backend/internal/validation"
)

// RelationshipHandler handles relationship-related HTTP requests
type RelationshipHandler struct {
	relationships *services.RelationshipService
}

// NewRelationshipHandler creates a new relationship handler
func NewRelationshipHandler(relationships *services.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{relationships: relationships}
}

// List handles GET /api/v1/relationships
func (h *RelationshipHandler) List(w http.ResponseWriter, r *http.Request) error {
	userID, err := middleware.RequireUserID(r.Context())
	if err != nil {
		return err
	}
	f, page, err := validation.RelationshipListQuery(r.URL.Query())
	if err != nil {
		return err
	}

	list, err := h.relationships.List(r.Context(), userID, f, page)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, list)
	return nil
}

// Create handles POST /api/v1/relationships
func (h *RelationshipHandler) Create(w http.ResponseWriter, r *http.Request) error {
	userID, err := middleware.RequireUserID(r.Context())
	if err != nil {
		return err
	}
	var req validation.RelationshipCreate
	if err := validation.DecodeBody(r, &req); err != nil {
		return err
	}

	rel, err := h.relationships.Create(r.Context(), userID, req.Model(userID))
	if err != nil {
		return err
	}
	respond(w, http.StatusCreated, rel)
	return nil
}

// Get handles GET /api/v1/relationships/{id}
func (h *RelationshipHandler) Get(w http.ResponseWriter, r *http.Request) error {
	userID, id, err := caller(r)
	if err != nil {
		return err
	}
	inc, err := validation.RelationshipGetQuery(r.URL.Query())
	if err != nil {
		return err
	}

	detail, err := h.relationships.Get(r.Context(), userID, id, inc)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, detail)
	return nil
}

// Update handles PATCH /api/v1/relationships/{id}
func (h *RelationshipHandler) Update(w http.ResponseWriter, r *http.Request) error {
	userID, id, err := caller(r)
	if err != nil {
		return err
	}
	var req validation.RelationshipUpdate
	if err := validation.DecodeBody(r, &req); err != nil {
		return err
	}

	rel, err := h.relationships.Update(r.Context(), userID, id, req.Patch())
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, rel)
	return nil
}

// Delete handles DELETE /api/v1/relationships/{id}
func (h *RelationshipHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	userID, id, err := caller(r)
	if err != nil {
		return err
	}
	if err := h.relationships.Delete(r.Context(), userID, id); err != nil {
		return err
	}
	noContent(w)
	return nil
}

// Settings handles GET /api/v1/relationships/{id}/settings
func (h *RelationshipHandler) Settings(w http.ResponseWriter, r *http.Request) error {
	userID, id, err := caller(r)
	if err != nil {
		return err
	}
	settings, err := h.relationships.Settings(r.Context(), userID, id)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, settings)
	return nil
}

// UpdateSettings handles PATCH /api/v1/relationships/{id}/settings
func (h *RelationshipHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) error {
	userID, id, err := caller(r)
	if err != nil {
		return err
	}
	var req validation.SettingsUpdate
	if err := validation.DecodeBody(r, &req); err != nil {
		return err
	}

	settings, err := h.relationships.UpdateSettings(r.Context(), userID, id, req.Patch())
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, settings)
	return nil
}
