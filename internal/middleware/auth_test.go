package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/middleware"
)

const secret = "test-secret"

func TestIssueAndLookup(t *testing.T) {
	m := middleware.NewAuthMiddleware(secret)

	token, err := middleware.IssueToken(secret, "op-1", []domain.Role{domain.RoleAidSpecialist, domain.RoleObserver}, time.Hour)
	require.NoError(t, err)

	actor, err := m.Lookup(token)
	require.NoError(t, err)
	assert.Equal(t, "op-1", actor.ID)
	assert.Equal(t, []domain.Role{domain.RoleAidSpecialist, domain.RoleObserver}, actor.Roles)
}

func TestLookup_Rejects(t *testing.T) {
	m := middleware.NewAuthMiddleware(secret)

	expired, err := middleware.IssueToken(secret, "op-1", nil, -time.Minute)
	require.NoError(t, err)

	foreign, err := middleware.IssueToken("other-secret", "op-1", nil, time.Hour)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "op-1"},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "op-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":    expired,
		"foreign":    foreign,
		"no subject": noSubject,
		"no expiry":  noExpiry,
		"wrong alg":  wrongAlg,
		"garbage":    "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.Lookup(token)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}
}

func TestLookup_RequiresSecret(t *testing.T) {
	token, err := middleware.IssueToken(secret, "op-1", nil, time.Hour)
	require.NoError(t, err)

	_, err = middleware.NewAuthMiddleware("").Lookup(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = middleware.IssueToken("", "op-1", nil, time.Hour)
	assert.Error(t, err)
}

func TestAuthenticate(t *testing.T) {
	m := middleware.NewAuthMiddleware(secret)

	var seen domain.Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := middleware.GetActorFromContext(r.Context())
		require.NoError(t, err)
		seen = actor
		w.WriteHeader(http.StatusNoContent)
	})
	h := m.Authenticate(next)

	token, err := middleware.IssueToken(secret, "op-7", []domain.Role{domain.RoleOwner}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + token, http.StatusNoContent},
		{"lowercase scheme", "bearer " + token, http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"basic scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/work-items", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
			}
		})
	}

	assert.Equal(t, "op-7", seen.ID)
	assert.True(t, seen.HasRole(domain.RoleOwner))
}

func TestGetActorFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := middleware.GetActorFromContext(req.Context())
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
