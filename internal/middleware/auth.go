package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/courtside/tournament-registry/internal/apperr"
	"github.com/courtside/tournament-registry/internal/authz"
	"github.com/courtside/tournament-registry/internal/httputil"
	"github.com/courtside/tournament-registry/internal/token"
	users "github.com/courtside/tournament-registry/internal/user"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ContextKey string

const PrincipalKey ContextKey = "principal"

type AccessTokens interface {
	ParseAccess(raw string) (*token.Claims, error)
}

type UserLoader interface {
	ActiveUser(ctx context.Context, id uuid.UUID) (*users.User, error)
}

// LoadPrincipal resolves the bearer token, if any, into a principal and the
// authenticated user. A rejected token leaves the caller anonymous; routes that
// need a role turn that into 401 through Require.
func LoadPrincipal(tokens AccessTokens, loader UserLoader, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := authz.Principal{Role: authz.Anonymous}
			ctx := r.Context()

			user, err := authenticate(ctx, r.Header.Get("Authorization"), tokens, loader)
			switch {
			case err != nil && !apperr.Is(err, apperr.KindUnauthorized):
				httputil.InternalServerError(w, log, "failed to load user", err)
				return
			case err != nil:
				principal.CredentialErr = err
			case user != nil:
				principal.Role = authz.Authenticated
				if user.HasAdminAccess() {
					principal.Role = authz.Admin
				}
				ctx = context.WithValue(ctx, users.UserKey, user)
			}

			ctx = context.WithValue(ctx, PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticate returns a nil user and nil error when no credentials were sent.
func authenticate(ctx context.Context, header string, tokens AccessTokens, loader UserLoader) (*users.User, error) {
	if header == "" {
		return nil, nil
	}
	scheme, raw, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
		return nil, apperr.New(apperr.KindUnauthorized, "authorization header must be: Bearer <token>")
	}

	claims, err := tokens.ParseAccess(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthorized, "token is invalid", err)
	}
	return loader.ActiveUser(ctx, userID)
}

// Require rejects the request unless the principal satisfies op.
func Require(op authz.Operation, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := authz.Check(op, GetPrincipal(r.Context())); err != nil {
				var appErr *apperr.Error
				if errors.As(err, &appErr) && appErr.Kind == apperr.KindUnauthorized {
					w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
				}
				httputil.Error(w, log, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetPrincipal(ctx context.Context) authz.Principal {
	p, ok := ctx.Value(PrincipalKey).(authz.Principal)
	if !ok {
		return authz.Principal{Role: authz.Anonymous}
	}
	return p
}

func GetAuthenticatedUser(ctx context.Context) *users.User {
	val := ctx.Value(users.UserKey)
	if val == nil {
		return nil
	}
	user, ok := val.(*users.User)
	if !ok {
		return nil
	}
	return user
}
