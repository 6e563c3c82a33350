package apperr

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorBody is the error part of a failed response
type ErrorBody struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	OK        bool      `json:"ok"`
	Error     ErrorBody `json:"error"`
	Timestamp string    `json:"timestamp"`
}

// Write sends e as an error envelope
func Write(w http.ResponseWriter, e *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:     ErrorBody{Code: e.Code, Message: e.Message, Details: e.Details},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
