// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Recipe model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a recipe is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - CreateRecipe maps a slug unique-constraint violation to ErrDuplicateSlug
//     so the service layer can retry with a fresh suffix.
//   - On other DB errors (connectivity, constraints, etc.), the raw gorm
//     error is propagated.
package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/sizzle-hq/go-recipe-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicateSlug indicates an insert collided with an existing slug.
// The slug unique index is the final arbiter of uniqueness; concurrent
// creations with the same title surface here rather than as raw DB errors.
var ErrDuplicateSlug = errors.New("slug already exists")

// isUniqueViolation detects unique-constraint violations across drivers.
// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}

// CreateRecipe inserts the given recipe row. The caller is responsible for
// populating ID, Slug, AuthorID, and CreatedAt. A slug collision returns
// ErrDuplicateSlug; any other failure returns the raw DB error.
func CreateRecipe(ctx context.Context, db *gorm.DB, r *domain.Recipe) error {
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return err
	}
	return nil
}

// GetRecipeBySlug fetches a single recipe by its slug. If the record does
// not exist, it returns ErrNotFound. On other DB errors, the raw error is
// returned.
func GetRecipeBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Recipe, error) {
	var r domain.Recipe
	err := db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// SlugExists reports whether any recipe currently holds the given slug.
// It is a cheap pre-check; the unique index remains the final arbiter for
// concurrent creations.
func SlugExists(ctx context.Context, db *gorm.DB, slug string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Where("slug = ?", slug).
		Count(&n).Error
	return n > 0, err
}

// searchScope narrows a recipe query to published rows matching q (case-
// insensitive substring over title, description, and ingredients). An empty
// q matches all published recipes.
func searchScope(db *gorm.DB, q string) *gorm.DB {
	s := db.Where("status = ?", domain.StatusPublished)
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		s = s.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(ingredients) LIKE ?",
			like, like, like,
		)
	}
	return s
}

// CountRecipes returns the number of published recipes matching q.
// On DB error, it returns the error.
func CountRecipes(ctx context.Context, db *gorm.DB, q string) (int64, error) {
	var total int64
	err := searchScope(db.WithContext(ctx).Model(&domain.Recipe{}), q).
		Count(&total).Error
	return total, err
}

// ListRecipesPage returns a page of published recipes matching q, ordered by
// creation time descending (newest first). Use CountRecipes to obtain the
// total for pagination metadata.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListRecipesPage(ctx context.Context, db *gorm.DB, q string, offset, limit int) ([]domain.Recipe, error) {
	var out []domain.Recipe
	err := searchScope(db.WithContext(ctx), q).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateRecipeFields applies the given column map to the recipe identified by
// id. The slug is never part of the map: it is assigned once at creation.
// Returns ErrNotFound when no row was affected.
func UpdateRecipeFields(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRecipe soft-deletes the recipe identified by id. Returns ErrNotFound
// when no row was affected.
func DeleteRecipe(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Delete(&domain.Recipe{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAverageRating persists a recomputed average for the recipe. It is
// called exclusively by the rating service inside the same transaction as
// the rating write, so readers never observe one without the other.
func UpdateAverageRating(ctx context.Context, db *gorm.DB, recipeID string, avg float64) error {
	res := db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Where("id = ?", recipeID).
		Update("average_rating", avg)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
