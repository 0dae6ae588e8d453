package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/courtside/tournament-registry/internal/apperr"
	"github.com/courtside/tournament-registry/internal/authz"
	"github.com/courtside/tournament-registry/internal/token"
	users "github.com/courtside/tournament-registry/internal/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type noRevocations struct{}

func (noRevocations) Revoke(context.Context, string, time.Time) error   { return nil }
func (noRevocations) IsRevoked(context.Context, string) (bool, error) { return false, nil }

type userMap map[uuid.UUID]*users.User

func (m userMap) ActiveUser(_ context.Context, id uuid.UUID) (*users.User, error) {
	u, ok := m[id]
	if !ok || !u.IsActive {
		return nil, apperr.New(apperr.KindUnauthorized, "user not found")
	}
	return u, nil
}

func setup(t *testing.T) (*token.Manager, userMap, *users.User, *users.User) {
	t.Helper()
	tokens := token.NewManager(token.Config{
		Secret:     "test-secret",
		Issuer:     "test",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}, noRevocations{})
	coach := &users.User{ID: uuid.New(), Email: "coach@example.com", IsActive: true}
	admin := &users.User{ID: uuid.New(), Email: "admin@example.com", IsAdmin: true, IsActive: true}
	return tokens, userMap{coach.ID: coach, admin.ID: admin}, coach, admin
}

func bearer(t *testing.T, tokens *token.Manager, u *users.User) string {
	t.Helper()
	pair, err := tokens.Issue(u)
	require.NoError(t, err)
	return "Bearer " + pair.Access
}

func TestLoadPrincipalAndRequire(t *testing.T) {
	tokens, loader, coach, admin := setup(t)
	log := zap.NewNop()

	handler := func(op authz.Operation) http.Handler {
		ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		return LoadPrincipal(tokens, loader, log)(Require(op, log)(ok))
	}

	testCases := []struct {
		name   string
		op     authz.Operation
		auth   string
		status int
	}{
		{"anonymous on public route", authz.TournamentList, "", http.StatusNoContent},
		{"bad token on public route", authz.TournamentList, "Bearer garbage", http.StatusNoContent},
		{"anonymous on protected route", authz.TournamentCreate, "", http.StatusUnauthorized},
		{"bad token on protected route", authz.TournamentCreate, "Bearer garbage", http.StatusUnauthorized},
		{"wrong scheme", authz.TournamentCreate, "Basic abc", http.StatusUnauthorized},
		{"user on authenticated route", authz.TournamentCreate, bearer(t, tokens, coach), http.StatusNoContent},
		{"user on admin route", authz.AdminDashboard, bearer(t, tokens, coach), http.StatusForbidden},
		{"admin on admin route", authz.AdminDashboard, bearer(t, tokens, admin), http.StatusNoContent},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			rec := httptest.NewRecorder()
			handler(tc.op).ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestLoadPrincipalStoresUser(t *testing.T) {
	tokens, loader, coach, _ := setup(t)

	var seen *users.User
	var principal authz.Principal
	h := LoadPrincipal(tokens, loader, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetAuthenticatedUser(r.Context())
		principal = GetPrincipal(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearer(t, tokens, coach))
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, seen)
	assert.Equal(t, coach.ID, seen.ID)
	assert.Equal(t, authz.Authenticated, principal.Role)

	// A deactivated user's token no longer authenticates.
	coach.IsActive = false
	seen = nil
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Nil(t, seen)
	assert.Equal(t, authz.Anonymous, principal.Role)
	assert.Error(t, principal.CredentialErr)
}
