package handlers

import (
	"net/http"
	"time"

	"couple-journal-backend/internal/middleware"
	"couple-journal-backend/internal/services"
	"couple-journal-backend/internal/validation"
)

type MoodHandler struct {
	moods *services.MoodService
}

func NewMoodHandler(moods *services.MoodService) *MoodHandler {
	return &MoodHandler{moods: moods}
}

// List handles GET /api/v1/mood-entries
func (h *MoodHandler) List(w http.ResponseWriter, r *http.Request) error {
	userID, err := middleware.RequireUserID(r.Context())
	if err != nil {
		return err
	}
	f, page, err := validation.MoodListQuery(r.URL.Query())
	if err != nil {
		return err
	}

	list, err := h.moods.List(r.Context(), userID, f, page)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, list)
	return nil
}

// Create handles POST /api/v1/mood-entries
func (h *MoodHandler) Create(w http.ResponseWriter, r *http.Request) error {
	userID, err := middleware.RequireUserID(r.Context())
	if err != nil {
		return err
	}
	var req validation.MoodEntryCreate
	if err := validation.DecodeBody(r, &req); err != nil {
		return err
	}

	e, err := h.moods.Create(r.Context(), userID, req.Model(userID, time.Now()))
	if err != nil {
		return err
	}
	respond(w, http.StatusCreated, e)
	return nil
}

func (h *MoodHandler) Get(w http.ResponseWriter, r *http.Request) error {
	userID, id, err := caller(r)
	if err != nil {
		return err
	}
	e, err := h.moods.Get(r.Context(), userID, id)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, e)
	return nil
}

func (h *MoodHandler) Update(w http.ResponseWriter, r *http.Request) error {
	userID, id, err := caller(r)
	if err != nil {
		return err
	}
	var req validation.MoodEntryUpdate
	if err := validation.DecodeBody(r, &req); err != nil {
		return err
	}

	e, err := h.moods.Update(r.Context(), userID, id, req.Patch())
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, e)
	return nil
}

func (h *MoodHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	userID, id, err := caller(r)
	if err != nil {
		return err
	}
	if err := h.moods.Delete(r.Context(), userID, id); err != nil {
		return err
	}
	noContent(w)
	return nil
}
