package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// TokenStore keeps the identifiers of refresh tokens revoked before their expiry.
type TokenStore struct {
	db *sqlx.DB
}

func NewTokenStore(db *sqlx.DB) *TokenStore {
	return &TokenStore{db: db}
}

// Revoke is idempotent; revoking an already revoked token is not an error.
func (s *TokenStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?) ON CONFLICT (jti) DO NOTHING",
		jti, expiresAt.UTC())
	return err
}

func (s *TokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := s.db.GetContext(ctx, &revoked, "SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = ?)", jti)
	return revoked, err
}

// PurgeExpired drops entries whose token would be rejected for expiry anyway.
func (s *TokenStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM revoked_tokens WHERE expires_at < ?", now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
