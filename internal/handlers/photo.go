package handlers

import (
	"net/http"

	"couple-journal-backend/internal/services"
	"couple-journal-backend/internal/validation"
)

// PhotoHandler handles photo upload requests
type PhotoHandler struct {
	photoService *services.PhotoService
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

// UploadPhoto handles POST /api/v1/relationships/{id}/photos.
// The client PUTs the image to the returned URL, then references the object
// URL from a milestone or timeline entry.
func (h *PhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) error {
	userID, relationshipID, err := caller(r)
	if err != nil {
		return err
	}
	var req validation.PhotoUpload
	if err := validation.DecodeBody(r, &req); err != nil {
		return err
	}

	upload, err := h.photoService.Presign(r.Context(), userID, relationshipID, req.Filename, req.ContentType)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, upload)
	return nil
}
