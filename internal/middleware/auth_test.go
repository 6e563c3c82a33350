package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"couple-journal-backend/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokens map[string]string

func (f fakeTokens) UserID(token string) (string, error) {
	if id, ok := f[token]; ok {
		return id, nil
	}
	return "", errors.New("bad token")
}

func serve(t *testing.T, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var seen string
	h := AuthMiddleware(fakeTokens{"good": "u1"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthMiddleware_PassesUserID(t *testing.T) {
	rec, seen := serve(t, "Bearer good")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "u1", seen)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	for name, header := range map[string]string{
		"missing":   "",
		"malformed": "Token good",
		"invalid":   "Bearer nope",
	} {
		t.Run(name, func(t *testing.T) {
			rec, seen := serve(t, header)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Empty(t, seen)

			var body apperr.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.False(t, body.OK)
			assert.Equal(t, apperr.CodeUnauthorized, body.Error.Code)
			assert.NotEmpty(t, body.Timestamp)
		})
	}
}

func TestRequireUserID(t *testing.T) {
	_, err := RequireUserID(context.Background())
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeUnauthorized, ae.Code)

	id, err := RequireUserID(WithUserID(context.Background(), "u1"))
	require.NoError(t, err)
	assert.Equal(t, "u1", id)
}

func TestValidateWebSocketToken(t *testing.T) {
	_, err := ValidateWebSocketToken("", fakeTokens{})
	assert.Error(t, err)

	id, err := ValidateWebSocketToken("good", fakeTokens{"good": "u1"})
	require.NoError(t, err)
	assert.Equal(t, "u1", id)
}
