package handlers

import (
	"net/http"

	"couple-journal-backend/internal/middleware"
	"couple-journal-backend/internal/services"
	"couple-journal-backend/internal/validation"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser handles POST /api/v1/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) error {
	var req validation.UserCreate
	if err := validation.DecodeBody(r, &req); err != nil {
		return err
	}

	created, err := h.userService.CreateUser(r.Context(), req.Name, req.Email, req.Image)
	if err != nil {
		return err
	}
	respond(w, http.StatusCreated, created)
	return nil
}

// Me handles GET /api/v1/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) error {
	userID, err := middleware.RequireUserID(r.Context())
	if err != nil {
		return err
	}
	user, err := h.userService.Me(r.Context(), userID)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, user)
	return nil
}

// UpdateMe handles PATCH /api/v1/users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) error {
	userID, err := middleware.RequireUserID(r.Context())
	if err != nil {
		return err
	}
	var req validation.UserUpdate
	if err := validation.DecodeBody(r, &req); err != nil {
		return err
	}
	user, err := h.userService.Update(r.Context(), userID, req.Patch())
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, user)
	return nil
}
