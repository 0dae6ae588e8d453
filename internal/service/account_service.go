package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/courtside/tournament-registry/internal/apperr"
	"github.com/courtside/tournament-registry/internal/store"
	"github.com/courtside/tournament-registry/internal/token"
	users "github.com/courtside/tournament-registry/internal/user"
	"github.com/courtside/tournament-registry/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Tokens is what the account service needs from the token manager.
type Tokens interface {
	Issue(user *users.User) (token.Pair, error)
	ParseRefresh(ctx context.Context, raw string) (*token.Claims, error)
	Revoke(ctx context.Context, raw string) error
	RefreshAccess(user *users.User) (string, error)
}

type AccountService struct {
	store  *store.UserStore
	tokens Tokens
	cal    Calendar
	log    *zap.Logger
}

func NewAccountService(store *store.UserStore, tokens Tokens, cal Calendar, log *zap.Logger) *AccountService {
	return &AccountService{store: store, tokens: tokens, cal: cal, log: log}
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupInput struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

type ProfileUpdateInput struct {
	FirstName *string `json:"first_name" validate:"omitnil,max=150"`
	LastName  *string `json:"last_name" validate:"omitnil,max=150"`
	Password  *string `json:"password" validate:"omitnil,min=8,max=72"`
}

type Session struct {
	User *users.User
	token.Pair
}

// Login verifies the credentials. Unknown email, wrong password and inactive accounts
// are all reported as the same Unauthorized error.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil || !user.IsActive || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, apperr.New(apperr.KindUnauthorized, "invalid credentials")
	}

	return s.session(user)
}

func (s *AccountService) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	user, err := s.createUser(ctx, in, false)
	if err != nil {
		return nil, err
	}
	return s.session(user)
}

// EnsureAdmin creates an administrator account unless the email is already taken.
// It reports whether a new account was created.
func (s *AccountService) EnsureAdmin(ctx context.Context, in SignupInput) (*users.User, bool, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, false, err
	}
	existing, err := s.store.GetUserByEmail(ctx, in.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("get user: %w", err)
	}

	user, err := s.createUser(ctx, in, true)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *AccountService) createUser(ctx context.Context, in SignupInput, admin bool) (*users.User, error) {
	email := normalizeEmail(in.Email)
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, emailTaken()
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &users.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		IsAdmin:      admin,
		IsStaff:      admin,
		IsSuperuser:  admin,
		IsActive:     true,
		CreatedAt:    s.cal.now(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if store.IsUniqueViolation(err) {
			return nil, emailTaken()
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user created", zap.String("user_id", user.ID.String()), zap.Bool("admin", admin))
	return user, nil
}

func emailTaken() error {
	return apperr.Validation("the email is already registered", map[string]string{"email": "the email is already registered"})
}

func (s *AccountService) session(user *users.User) (*Session, error) {
	pair, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	return &Session{User: user, Pair: pair}, nil
}

// Logout revokes a refresh token owned by the caller.
func (s *AccountService) Logout(ctx context.Context, caller *users.User, refresh string) error {
	if strings.TrimSpace(refresh) == "" {
		return apperr.Validation("refresh token is required", map[string]string{"refresh": "this field is required"})
	}
	claims, err := s.tokens.ParseRefresh(ctx, refresh)
	if err != nil {
		if apperr.Is(err, apperr.KindUnauthorized) {
			return apperr.Wrap(apperr.KindValidation, "could not log out", err)
		}
		return err
	}
	if claims.Subject != caller.ID.String() {
		return apperr.New(apperr.KindForbidden, "the token belongs to another user")
	}
	if err := s.tokens.Revoke(ctx, refresh); err != nil {
		if apperr.Is(err, apperr.KindUnauthorized) {
			return apperr.Wrap(apperr.KindValidation, "could not log out", err)
		}
		return err
	}
	return nil
}

// Refresh issues a new access token for a live refresh token.
func (s *AccountService) Refresh(ctx context.Context, refresh string) (string, error) {
	if strings.TrimSpace(refresh) == "" {
		return "", apperr.Validation("refresh token is required", map[string]string{"refresh": "this field is required"})
	}
	claims, err := s.tokens.ParseRefresh(ctx, refresh)
	if err != nil {
		return "", err
	}
	id, err := claims.UserID()
	if err != nil {
		return "", apperr.Wrap(apperr.KindUnauthorized, "token is invalid", err)
	}
	user, err := s.ActiveUser(ctx, id)
	if err != nil {
		return "", err
	}
	return s.tokens.RefreshAccess(user)
}

// ActiveUser loads a user that may still act on the system.
func (s *AccountService) ActiveUser(ctx context.Context, id uuid.UUID) (*users.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Wrap(apperr.KindUnauthorized, "user not found", err)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !user.IsActive {
		return nil, apperr.New(apperr.KindUnauthorized, "user is inactive")
	}
	return user, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, user *users.User, in ProfileUpdateInput) (*users.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	updated := *user
	if in.FirstName != nil {
		updated.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		updated.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updated.PasswordHash = string(hash)
	}

	if err := s.store.UpdateUserProfile(ctx, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Wrap(apperr.KindNotFound, "user not found", err)
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &updated, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
