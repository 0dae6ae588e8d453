package service

import (
	"context"
	"testing"
	"time"

	"github.com/courtside/tournament-registry/internal/apperr"
	"github.com/courtside/tournament-registry/internal/store"
	"github.com/courtside/tournament-registry/internal/token"
	"github.com/courtside/tournament-registry/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAccountService(t *testing.T) (*AccountService, *token.Manager) {
	t.Helper()
	database := setupTestDB(t)
	tokens := token.NewManager(token.Config{
		Secret:     "test-secret",
		Issuer:     "test",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}, store.NewTokenStore(database))
	return NewAccountService(store.NewUserStore(database), tokens, fixedCalendar(), zap.NewNop()), tokens
}

func TestSignupAndLogin(t *testing.T) {
	accounts, tokens := newAccountService(t)
	ctx := context.Background()

	session, err := accounts.Signup(ctx, SignupInput{Email: " Coach@Example.com ", Password: "secret-pass", FirstName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "coach@example.com", session.User.Email)
	assert.False(t, session.User.IsAdmin)
	assert.NotEmpty(t, session.Access)
	assert.NotEmpty(t, session.Refresh)

	claims, err := tokens.ParseAccess(session.Access)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID.String(), claims.Subject)

	_, err = accounts.Signup(ctx, SignupInput{Email: "coach@example.com", Password: "another-pass"})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "email")

	logged, err := accounts.Login(ctx, LoginInput{Email: "COACH@example.com", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, logged.User.ID)

	logged, err = accounts.Login(ctx, LoginInput{Email: "  coach@example.com\t", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, logged.User.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	accounts, _ := newAccountService(t)
	ctx := context.Background()
	_, err := accounts.Signup(ctx, SignupInput{Email: "coach@example.com", Password: "secret-pass"})
	require.NoError(t, err)

	session, err := accounts.Login(ctx, LoginInput{Email: "coach@example.com", Password: "wrong-pass"})
	assert.Nil(t, session)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = accounts.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret-pass"})
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = accounts.Login(ctx, LoginInput{Email: "not-an-email", Password: "x"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRefreshAndLogout(t *testing.T) {
	accounts, _ := newAccountService(t)
	ctx := context.Background()
	session, err := accounts.Signup(ctx, SignupInput{Email: "coach@example.com", Password: "secret-pass"})
	require.NoError(t, err)

	access, err := accounts.Refresh(ctx, session.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	_, err = accounts.Refresh(ctx, session.Access)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	require.NoError(t, accounts.Logout(ctx, session.User, session.Refresh))

	_, err = accounts.Refresh(ctx, session.Refresh)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(accounts.Logout(ctx, session.User, session.Refresh)))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(accounts.Logout(ctx, session.User, "")))
}

func TestLogoutRejectsForeignToken(t *testing.T) {
	accounts, _ := newAccountService(t)
	ctx := context.Background()
	owner, err := accounts.Signup(ctx, SignupInput{Email: "owner@example.com", Password: "secret-pass"})
	require.NoError(t, err)
	other, err := accounts.Signup(ctx, SignupInput{Email: "other@example.com", Password: "secret-pass"})
	require.NoError(t, err)

	err = accounts.Logout(ctx, other.User, owner.Refresh)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	access, err := accounts.Refresh(ctx, owner.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
}

func TestUpdateProfile(t *testing.T) {
	accounts, _ := newAccountService(t)
	ctx := context.Background()
	session, err := accounts.Signup(ctx, SignupInput{Email: "coach@example.com", Password: "secret-pass", FirstName: "Ana", LastName: "Rojas"})
	require.NoError(t, err)

	updated, err := accounts.UpdateProfile(ctx, session.User, ProfileUpdateInput{
		FirstName: utils.Ptr("Ana María"),
		Password:  utils.Ptr("brand-new-pass"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", updated.FirstName)
	assert.Equal(t, "Rojas", updated.LastName)

	_, err = accounts.Login(ctx, LoginInput{Email: "coach@example.com", Password: "secret-pass"})
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	_, err = accounts.Login(ctx, LoginInput{Email: "coach@example.com", Password: "brand-new-pass"})
	assert.NoError(t, err)

	_, err = accounts.UpdateProfile(ctx, session.User, ProfileUpdateInput{Password: utils.Ptr("short")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestEnsureAdmin(t *testing.T) {
	accounts, _ := newAccountService(t)
	ctx := context.Background()
	in := SignupInput{Email: "admin@deportes.com", Password: "admin-pass"}

	admin, created, err := accounts.EnsureAdmin(ctx, in)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, admin.IsAdmin)
	assert.True(t, admin.IsStaff)

	again, created, err := accounts.EnsureAdmin(ctx, in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)

	again, created, err = accounts.EnsureAdmin(ctx, SignupInput{Email: " Admin@Deportes.com ", Password: "admin-pass"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)
}
