package handlers

import (
	"net/http"

	"couple-journal-backend/internal/services"
	"couple-journal-backend/internal/validation"
)

// MilestoneHandler handles milestone HTTP requests
type MilestoneHandler struct {
	milestones *services.MilestoneService
}

func NewMilestoneHandler(milestones *services.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{milestones: milestones}
}

// List handles GET /api/v1/relationships/{id}/milestones
func (h *MilestoneHandler) List(w http.ResponseWriter, r *http.Request) error {
	userID, relationshipID, err := caller(r)
	if err != nil {
		return err
	}
	f, page, err := validation.MilestoneListQuery(r.URL.Query())
	if err != nil {
		return err
	}

	list, err := h.milestones.List(r.Context(), userID, relationshipID, f, page)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, list)
	return nil
}

// Create handles POST /api/v1/relationships/{id}/milestones
func (h *MilestoneHandler) Create(w http.ResponseWriter, r *http.Request) error {
	userID, relationshipID, err := caller(r)
	if err != nil {
		return err
	}
	var req validation.MilestoneCreate
	if err := validation.DecodeBody(r, &req); err != nil {
		return err
	}

	m, err := h.milestones.Create(r.Context(), userID, relationshipID, req.Model())
	if err != nil {
		return err
	}
	respond(w, http.StatusCreated, m)
	return nil
}

func (h *MilestoneHandler) Get(w http.ResponseWriter, r *http.Request) error {
	userID, id, err := caller(r)
	if err != nil {
		return err
	}
	m, err := h.milestones.Get(r.Context(), userID, id)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, m)
	return nil
}

func (h *MilestoneHandler) Update(w http.ResponseWriter, r *http.Request) error {
	userID, id, err := caller(r)
	if err != nil {
		return err
	}
	var req validation.MilestoneUpdate
	if err := validation.DecodeBody(r, &req); err != nil {
		return err
	}

	m, err := h.milestones.Update(r.Context(), userID, id, req.Patch())
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, m)
	return nil
}

func (h *MilestoneHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	userID, id, err := caller(r)
	if err != nil {
		return err
	}
	if err := h.milestones.Delete(r.Context(), userID, id); err != nil {
		return err
	}
	noContent(w)
	return nil
}
