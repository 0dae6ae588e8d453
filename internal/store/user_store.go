package store

import (
	"context"

	users "github.com/courtside/tournament-registry/internal/user"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type UserStore struct {
	db *sqlx.DB
}

const (
	getUserQuery        = "SELECT * FROM users WHERE id = ?"
	getUserByEmailQuery = "SELECT * FROM users WHERE email = ? COLLATE NOCASE"
	createUserQuery     = `
		INSERT INTO users (id, email, password, first_name, last_name, is_admin, is_staff, is_superuser, is_active, created_at) VALUES
		(:id, :email, :password, :first_name, :last_name, :is_admin, :is_staff, :is_superuser, :is_active, :created_at)
	`
	updateUserProfileQuery = `
		UPDATE users SET
		first_name = :first_name,
		last_name = :last_name,
		password = :password
		WHERE id = :id
	`
)

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) GetUser(ctx context.Context, id uuid.UUID) (*users.User, error) {
	var user users.User
	err := s.db.GetContext(ctx, &user, getUserQuery, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	var user users.User
	err := s.db.GetContext(ctx, &user, getUserByEmailQuery, email)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) CreateUser(ctx context.Context, user *users.User) error {
	_, err := s.db.NamedExecContext(ctx, createUserQuery, user)
	return err
}

func (s *UserStore) UpdateUserProfile(ctx context.Context, user *users.User) error {
	res, err := s.db.NamedExecContext(ctx, updateUserProfileQuery, user)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}
