// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// Error semantics:
//   - Username/email collisions rely on the database unique constraints and
//     are returned as ErrDuplicateUser for the service layer to translate.
//   - Missing rows are reported as ErrNotFound.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sizzle-hq/go-recipe-backend/internal/domain"
)

// ErrDuplicateUser indicates an insert collided with an existing username
// or email.
var ErrDuplicateUser = errors.New("username or email already exists")

// CreateUser inserts a new account with the given (already hashed) password.
// On a username/email collision it returns ErrDuplicateUser.
func CreateUser(ctx context.Context, db *gorm.DB, username, email, passwordHash string, isStaff bool) (*domain.User, error) {
	u := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsStaff:      isStaff,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}
	return u, nil
}

// GetUserByUsername fetches an account by its unique username, or ErrNotFound.
func GetUserByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Where("username = ?", username).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByID fetches an account by primary key, or ErrNotFound.
func GetUserByID(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}
