package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"

	"couple-journal-backend/internal/apperr"
	"couple-journal-backend/internal/middleware"
	"couple-journal-backend/internal/repository"
	"couple-journal-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// SuccessResponse wraps every successful payload
type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data"`
}

// handlerFunc is an http.HandlerFunc that reports failures instead of writing them
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// wrap turns a handlerFunc into an http.HandlerFunc. It is the only place
// errors become responses.
func wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			respondError(w, translate(r, err))
		}
	}
}

// translate maps any error to the taxonomy. Unknown errors are logged and
// reported as internal without their text.
func translate(r *http.Request, err error) *apperr.Error {
	if e, ok := apperr.As(err); ok {
		return e
	}
	if constraint, ok := repository.UniqueViolation(err); ok {
		return apperr.Conflict("Duplicate value", map[string]string{"target": constraint})
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Record not found")
	}

	log.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", chiMiddleware.GetReqID(r.Context())).
		Str("user_id", middleware.GetUserID(r.Context())).
		Msg("Request failed")
	return apperr.Internal()
}

// recoverer turns a panic into an INTERNAL_SERVER_ERROR envelope
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			log.Error().
				Interface("panic", rvr).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("request_id", chiMiddleware.GetReqID(r.Context())).
				Str("stack", string(debug.Stack())).
				Msg("Recovered from panic")
			respondError(w, apperr.Internal())
		}()
		next.ServeHTTP(w, r)
	})
}

// respond sends a success envelope
func respond(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(SuccessResponse{OK: true, Data: data})
}

func noContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// respondError sends an error envelope
func respondError(w http.ResponseWriter, e *apperr.Error) {
	apperr.Write(w, e)
}

// pathID reads and validates the {id} path parameter
func pathID(r *http.Request) (string, error) {
	return validation.PathUUID("id", chi.URLParam(r, "id"))
}

// caller returns the authenticated user id and the validated {id} parameter
func caller(r *http.Request) (userID, id string, err error) {
	if userID, err = middleware.RequireUserID(r.Context()); err != nil {
		return "", "", err
	}
	if id, err = pathID(r); err != nil {
		return "", "", err
	}
	return userID, id, nil
}
