// Package services – RatingService
//
// This file implements the RatingService, which governs how users score
// recipes on a 1–5 scale. It enforces the one-rating-per-(recipe,user)
// invariant as an insert-or-update, and keeps the recipe's average_rating
// equal to the arithmetic mean of its current scores. The rating write and
// the average recompute share a single transaction, so a reader never
// observes one without the other.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sizzle-hq/go-recipe-backend/internal/repo"
)

// RatingService implements the use-cases around recipe ratings.
type RatingService struct {
	// DB is the database handle used for all rating operations.
	// The handle may be a plain *gorm.DB or a transaction-bound handle.
	DB *gorm.DB
}

// Rate records score for recipeSlug on behalf of userID and returns the
// recipe's recomputed average rating.
//
// Semantics and validation:
//   - userID must be an authenticated identity; otherwise ErrUnauthenticated.
//   - score must be 1–5 inclusive; otherwise ErrInvalidScore and nothing is
//     written.
//   - recipeSlug must resolve to an existing recipe; otherwise
//     ErrRecipeNotFound.
//   - A prior rating by the same user is overwritten in place (update, not
//     insert); otherwise a new row is created.
//
// Concurrency & atomicity:
//   - The upsert and the average recompute run inside one transaction, so
//     two simultaneous raters are both reflected in the final average and
//     no lost update is possible.
//   - An insert race on the (recipe_id, user_id) unique index is resolved
//     by re-reading the winning row and updating it.
func (s *RatingService) Rate(ctx context.Context, userID, recipeSlug string, score int) (float64, error) {
	if userID == "" {
		return 0, ErrUnauthenticated
	}
	if score < 1 || score > 5 {
		return 0, ErrInvalidScore
	}

	var avg float64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := repo.GetRecipeBySlug(ctx, tx, recipeSlug)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}

		existing, err := repo.GetRating(ctx, tx, rec.ID, userID)
		switch {
		case err == nil:
			if err := repo.UpdateRatingScore(ctx, tx, existing.ID, score); err != nil {
				return err
			}
		case errors.Is(err, repo.ErrNotFound):
			if _, err := repo.CreateRating(ctx, tx, rec.ID, userID, score); err != nil {
				if errors.Is(err, repo.ErrDuplicateRating) {
					// Lost the insert race; the winning row is ours to update.
					winner, gerr := repo.GetRating(ctx, tx, rec.ID, userID)
					if gerr != nil {
						return gerr
					}
					if uerr := repo.UpdateRatingScore(ctx, tx, winner.ID, score); uerr != nil {
						return uerr
					}
				} else {
					return err
				}
			}
		default:
			return err
		}

		// Recompute from the full rating set rather than maintaining a
		// running sum; the AVG runs in the database inside this transaction.
		avg, err = repo.AverageScore(ctx, tx, rec.ID)
		if err != nil {
			return err
		}
		return repo.UpdateAverageRating(ctx, tx, rec.ID, avg)
	})
	if err != nil {
		return 0, err
	}
	return avg, nil
}
