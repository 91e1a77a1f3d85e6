package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func authEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetUserIDFromContext(r.Context())))
	})
}

func TestBearerAuthMissingHeader(t *testing.T) {
	h := BearerAuth(func(string) (string, error) { return "user-1", nil })(authEcho())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analysis", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing Authorization header")
}

func TestBearerAuthMalformedHeader(t *testing.T) {
	h := BearerAuth(func(string) (string, error) { return "user-1", nil })(authEcho())

	req := httptest.NewRequest(http.MethodGet, "/analysis", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid Authorization header format")
}

func TestBearerAuthRejectedToken(t *testing.T) {
	h := BearerAuth(func(string) (string, error) { return "", errors.New("expired") })(authEcho())

	req := httptest.NewRequest(http.MethodGet, "/analysis", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired token")
}

func TestBearerAuthPassesUserID(t *testing.T) {
	var seen string
	h := BearerAuth(func(token string) (string, error) {
		seen = token
		return "user-42", nil
	})(authEcho())

	req := httptest.NewRequest(http.MethodGet, "/analysis", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "good-token", seen)
	assert.Equal(t, "user-42", rec.Body.String())
}

func TestGetUserIDFromContextEmptyWithoutAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetUserIDFromContext(req.Context()))
}
