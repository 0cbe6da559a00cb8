package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"laikavet/internal/platform/logger"
	"laikavet/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verifierFunc func(ctx context.Context, token string) (auth.Claims, error)

func (f verifierFunc) Verify(ctx context.Context, token string) (auth.Claims, error) {
	return f(ctx, token)
}

var staffZone = Zone{
	Name:  "admin",
	Roles: []string{"admin", "veterinarian", "receptionist"},
	Homes: map[string]string{"client": "/client"},
}

func echoClaims() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := GetClaims(r.Context())
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_ = json.NewEncoder(w).Encode(c)
	})
}

func TestAuthContext_BearerToken(t *testing.T) {
	v := verifierFunc(func(ctx context.Context, token string) (auth.Claims, error) {
		if token != "good" {
			return auth.Claims{}, auth.ErrInvalidToken
		}
		return auth.Claims{UserID: "2", Role: "veterinarian"}, nil
	})
	h := AuthContext(v, false)(echoClaims())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var got auth.Claims
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "2", got.UserID)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthContext_DebugHeaderOnlyWhenAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Debug-User-ID", "1")
	req.Header.Set("X-Debug-Role", "admin")

	rec := httptest.NewRecorder()
	AuthContext(nil, false)(echoClaims()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	AuthContext(nil, true)(echoClaims()).ServeHTTP(rec, req)
	var got auth.Claims
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "admin", got.Role)
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"":             "",
		"Bearer":       "",
		"Basic abc":    "",
		"bearer  tok ": "tok",
		"Bearer a.b.c": "a.b.c",
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		assert.Equal(t, want, BearerToken(req), header)
	}
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(staffZone)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name     string
		claims   *auth.Claims
		status   int
		redirect string
	}{
		{"anonymous", nil, http.StatusUnauthorized, "/login"},
		{"client", &auth.Claims{UserID: "3", Role: "client"}, http.StatusForbidden, "/client"},
		{"unknown role", &auth.Claims{UserID: "9", Role: "intern"}, http.StatusForbidden, "/login"},
		{"vet", &auth.Claims{UserID: "2", Role: "veterinarian"}, http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/x", nil)
			if tc.claims != nil {
				req = req.WithContext(WithClaims(req.Context(), *tc.claims))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.redirect != "" {
				var body zoneError
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, tc.redirect, body.Redirect)
			}
		})
	}
}

func TestRecover(t *testing.T) {
	h := Recover(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("boom"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
