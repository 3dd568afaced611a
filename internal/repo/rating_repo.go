// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Rating model.
//
// The repository follows a "thin" approach: it performs persistence and simple
// query composition, leaving the upsert-and-recompute orchestration to the
// services package (see services.RatingService).
//
// Error semantics:
//   - A concurrent insert for the same (recipe_id, user_id) pair relies on
//     the database unique constraint and is returned as ErrDuplicateRating.
//     The service layer resolves the race by re-reading and updating.
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

// ErrDuplicateRating indicates an insert collided with an existing rating
// for the same (recipe, user) pair.
var ErrDuplicateRating = errors.New("rating already exists")

// GetRating fetches the rating left by userID on recipeID, or ErrNotFound.
func GetRating(ctx context.Context, db *gorm.DB, recipeID, userID string) (*domain.Rating, error) {
	var r domain.Rating
	err := db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRating inserts a rating row for the given recipe and user. The
// combination (recipe_id, user_id) must be unique, enforced by the database
// schema; a violation is returned as ErrDuplicateRating.
//
// Score must be 1–5. Validation is enforced at the service layer and via the
// DB check constraint.
func CreateRating(ctx context.Context, db *gorm.DB, recipeID, userID string, score int) (*domain.Rating, error) {
	r := &domain.Rating{
		ID:        uuid.NewString(),
		RecipeID:  recipeID,
		UserID:    userID,
		Score:     score,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateRating
		}
		return nil, err
	}
	return r, nil
}

// UpdateRatingScore overwrites the score of an existing rating in place.
// Returns ErrNotFound when no row was affected.
func UpdateRatingScore(ctx context.Context, db *gorm.DB, id string, score int) error {
	res := db.WithContext(ctx).
		Model(&domain.Rating{}).
		Where("id = ?", id).
		Update("score", score)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AverageScore returns the arithmetic mean of all scores for the recipe,
// or 0 when the recipe has no ratings. The aggregate runs in the database
// so it can share a transaction with the rating write.
func AverageScore(ctx context.Context, db *gorm.DB, recipeID string) (float64, error) {
	var row struct {
		Avg float64
	}
	err := db.WithContext(ctx).
		Model(&domain.Rating{}).
		Select("COALESCE(AVG(score), 0) AS avg").
		Where("recipe_id = ?", recipeID).
		Scan(&row).Error
	return row.Avg, err
}

// CountRatings returns the number of rating rows for the recipe.
func CountRatings(ctx context.Context, db *gorm.DB, recipeID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Rating{}).
		Where("recipe_id = ?", recipeID).
		Count(&n).Error
	return n, err
}
