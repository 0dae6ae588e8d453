// Package token issues and verifies the HS256 access and refresh tokens.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/courtside/tournament-registry/internal/apperr"
	users "github.com/courtside/tournament-registry/internal/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Type string

const (
	Access  Type = "access"
	Refresh Type = "refresh"
)

type Claims struct {
	Type    Type   `json:"token_type"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// UserID returns the subject as a uuid.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RevocationList records refresh tokens that must no longer be accepted.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Config struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Manager struct {
	cfg     Config
	revoked RevocationList
	now     func() time.Time
}

func NewManager(cfg Config, revoked RevocationList) *Manager {
	return &Manager{cfg: cfg, revoked: revoked, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) Issue(user *users.User) (Pair, error) {
	access, err := m.sign(user, Access, m.cfg.AccessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := m.sign(user, Refresh, m.cfg.RefreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

func (m *Manager) sign(user *users.User, typ Type, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		Type:    typ,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			Issuer:    m.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

func (m *Manager) parse(raw string, want Type) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(m.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Wrap(apperr.KindUnauthorized, "token has expired", err)
		}
		return nil, apperr.Wrap(apperr.KindUnauthorized, "token is invalid", err)
	}
	if claims.Type != want {
		return nil, apperr.New(apperr.KindUnauthorized, fmt.Sprintf("expected a %s token", want))
	}
	return claims, nil
}

func (m *Manager) ParseAccess(raw string) (*Claims, error) {
	return m.parse(raw, Access)
}

// ParseRefresh validates a refresh token and rejects it when it has been revoked.
func (m *Manager) ParseRefresh(ctx context.Context, raw string) (*Claims, error) {
	claims, err := m.parse(raw, Refresh)
	if err != nil {
		return nil, err
	}
	revoked, err := m.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, apperr.New(apperr.KindUnauthorized, "token has been revoked")
	}
	return claims, nil
}

func (m *Manager) Revoke(ctx context.Context, raw string) error {
	claims, err := m.ParseRefresh(ctx, raw)
	if err != nil {
		return err
	}
	return m.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// RefreshAccess exchanges a live refresh token for a new access token. The user is
// re-read by the caller so role changes apply.
func (m *Manager) RefreshAccess(user *users.User) (string, error) {
	return m.sign(user, Access, m.cfg.AccessTTL)
}
