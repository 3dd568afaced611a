// Package services – AccountService
//
// This file implements registration and login. Passwords are hashed with
// bcrypt before they reach the repository; successful logins are exchanged
// for a signed bearer token by the injected token service.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sizzle-hq/go-recipe-backend/internal/auth"
	"github.com/sizzle-hq/go-recipe-backend/internal/domain"
	"github.com/sizzle-hq/go-recipe-backend/internal/repo"
)

// RegisterInput carries the fields of a registration submission.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// ValidateRegister checks in against the account field rules and returns the
// structured field errors, or nil when valid.
func ValidateRegister(in RegisterInput) *ValidationError {
	return validateStruct(in)
}

// AccountService implements registration and login.
type AccountService struct {
	// DB is the database handle used for all account operations.
	DB *gorm.DB
	// Tokens signs bearer tokens for authenticated sessions.
	Tokens *auth.TokenService
}

// Register validates in, hashes the password, and persists a new account.
// Username and email collisions are reported as ErrAccountExists.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if verr := ValidateRegister(in); verr != nil {
		return nil, verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u, err := repo.CreateUser(ctx, s.DB, in.Username, in.Email, string(hash), false)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateUser) {
			return nil, ErrAccountExists
		}
		return nil, err
	}
	return u, nil
}

// Login verifies the credentials and returns a signed bearer token with its
// expiry. Unknown usernames and wrong passwords both yield
// ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, username, password string) (token string, expires time.Time, user *domain.User, err error) {
	u, err := repo.GetUserByUsername(ctx, s.DB, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", time.Time{}, nil, ErrInvalidCredentials
		}
		return "", time.Time{}, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", time.Time{}, nil, ErrInvalidCredentials
	}
	tok, exp, err := s.Tokens.Sign(u)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return tok, exp, u, nil
}
