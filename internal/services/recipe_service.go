// Package services – RecipeService
//
// This file implements the RecipeService, which manages the recipe lifecycle:
// creation with unique slug assignment, visibility-aware fetching, paginated
// search listing, and author/staff-gated editing and deletion. Service-level
// errors (e.g. ErrRecipeNotFound, ErrPermissionDenied, ErrSlugExhausted) are
// returned for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sizzle-hq/go-recipe-backend/internal/domain"
	"github.com/sizzle-hq/go-recipe-backend/internal/repo"
	"github.com/sizzle-hq/go-recipe-backend/internal/slug"
)

// RecipeInput carries the user-editable fields of a recipe. The same input
// is accepted for creation and edit; the slug is never among them.
type RecipeInput struct {
	Title         string `json:"title"          validate:"required,max=200"`
	Description   string `json:"description"    validate:"required,max=45"`
	Ingredients   string `json:"ingredients"    validate:"required"`
	Instructions  string `json:"instructions"   validate:"required"`
	CookingTime   int    `json:"cooking_time"   validate:"required,min=1"`
	Servings      int    `json:"servings"       validate:"required,min=1"`
	FeaturedImage string `json:"featured_image" validate:"omitempty,max=512"`
	Category      string `json:"category"       validate:"omitempty,recipecategory"`
	Status        string `json:"status"         validate:"omitempty,oneof=draft published"`
}

// ValidateRecipe checks in against the recipe field rules and returns the
// structured field errors, or nil when valid.
func ValidateRecipe(in RecipeInput) *ValidationError {
	return validateStruct(in)
}

// RecipeService implements the use-cases around recipes. It is stateless
// aside from the persisted rows it operates on; every method re-evaluates
// authorization against the acting identity it is handed.
type RecipeService struct {
	// DB is the database handle used for all recipe operations.
	DB *gorm.DB

	// MaxSlugAttempts bounds the slug retry loop on creation. Values <= 0
	// fall back to 5.
	MaxSlugAttempts int

	// IdempotencyTTL controls how long a recipe-creation Idempotency-Key
	// remains replayable. Values <= 0 fall back to 24h.
	IdempotencyTTL time.Duration
}

// NewRecipeService constructs a RecipeService with default retry and
// idempotency settings.
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{DB: db, MaxSlugAttempts: 5, IdempotencyTTL: 24 * time.Hour}
}

// Create validates in, assigns a unique slug derived from the title, and
// persists a new recipe authored by userID.
//
// Slug assignment: the normalized title is the first candidate; every
// collision (detected by the slug unique index at insert time, which also
// covers concurrent creations with the same title) retries with a fresh
// random suffix appended to the base, up to MaxSlugAttempts. When the bound
// is exhausted, ErrSlugExhausted is returned and the caller may retry the
// whole request.
//
// Idempotency: when idemKey is non-empty and a non-expired record exists for
// (userID, idemKey), the originally created recipe is returned with
// replayed=true and no new row is inserted.
func (s *RecipeService) Create(ctx context.Context, userID string, in RecipeInput, idemKey string) (rec *domain.Recipe, replayed bool, err error) {
	if userID == "" {
		return nil, false, ErrUnauthenticated
	}
	if verr := ValidateRecipe(in); verr != nil {
		return nil, false, verr
	}

	if idemKey != "" {
		if prev, err := repo.GetIdempotency(ctx, s.DB, userID, idemKey, time.Now().UTC()); err == nil {
			r, err := s.byID(ctx, prev.RecipeID)
			if err != nil {
				return nil, false, err
			}
			return r, true, nil
		} else if !errors.Is(err, repo.ErrNotFound) {
			return nil, false, err
		}
	}

	base := slug.Make(in.Title)
	if base == "" {
		// Title was all punctuation/symbols; slugs must be non-empty.
		base = "recipe"
	}

	attempts := s.MaxSlugAttempts
	if attempts <= 0 {
		attempts = 5
	}

	candidate := base
	for i := 0; i < attempts; i++ {
		r := &domain.Recipe{
			ID:            uuid.NewString(),
			Title:         strings.TrimSpace(in.Title),
			Slug:          candidate,
			AuthorID:      userID,
			FeaturedImage: defaultString(in.FeaturedImage, "placeholder"),
			Description:   in.Description,
			Ingredients:   in.Ingredients,
			Instructions:  in.Instructions,
			CookingTime:   in.CookingTime,
			Servings:      in.Servings,
			Category:      in.Category,
			Status:        defaultString(in.Status, domain.StatusDraft),
			CreatedAt:     time.Now().UTC(),
		}
		err := repo.CreateRecipe(ctx, s.DB, r)
		if err == nil {
			if idemKey != "" {
				// Best effort: a failed idempotency write must not fail the
				// creation that already committed.
				_, _ = repo.CreateIdempotency(ctx, s.DB, userID, idemKey, r.ID, 201, s.idemTTL())
			}
			return r, false, nil
		}
		if errors.Is(err, repo.ErrDuplicateSlug) {
			candidate = slug.WithSuffix(base)
			continue
		}
		return nil, false, err
	}
	return nil, false, ErrSlugExhausted
}

// Get fetches a recipe by slug with draft visibility applied: drafts are
// returned only to their author or staff, and look like ErrRecipeNotFound
// to everyone else.
func (s *RecipeService) Get(ctx context.Context, recipeSlug, actingUserID string, isStaff bool) (*domain.Recipe, error) {
	r, err := repo.GetRecipeBySlug(ctx, s.DB, recipeSlug)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if r.Status == domain.StatusDraft && !canModify(r, actingUserID, isStaff) {
		return nil, ErrRecipeNotFound
	}
	return r, nil
}

// ListPage returns a page of published recipes matching the search query,
// newest first, plus the total count for pagination metadata. It applies
// defaults for invalid page/pageSize.
func (s *RecipeService) ListPage(ctx context.Context, query string, page, pageSize int) ([]domain.Recipe, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 6
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountRecipes(ctx, s.DB, query)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Recipe{}, 0, nil
	}

	items, err := repo.ListRecipesPage(ctx, s.DB, query, offset, pageSize)
	return items, total, err
}

// Update validates in and applies it to the recipe identified by slug, after
// re-checking that the acting user is the author or staff. The slug is left
// untouched even when the title changes. Returns the updated recipe.
func (s *RecipeService) Update(ctx context.Context, recipeSlug, actingUserID string, isStaff bool, in RecipeInput) (*domain.Recipe, error) {
	if actingUserID == "" {
		return nil, ErrUnauthenticated
	}
	r, err := repo.GetRecipeBySlug(ctx, s.DB, recipeSlug)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if !canModify(r, actingUserID, isStaff) {
		return nil, ErrPermissionDenied
	}
	if verr := ValidateRecipe(in); verr != nil {
		return nil, verr
	}

	fields := map[string]any{
		"title":          strings.TrimSpace(in.Title),
		"description":    in.Description,
		"ingredients":    in.Ingredients,
		"instructions":   in.Instructions,
		"cooking_time":   in.CookingTime,
		"servings":       in.Servings,
		"category":       in.Category,
		"featured_image": defaultString(in.FeaturedImage, r.FeaturedImage),
		"status":         defaultString(in.Status, r.Status),
	}
	if err := repo.UpdateRecipeFields(ctx, s.DB, r.ID, fields); err != nil {
		return nil, err
	}
	return repo.GetRecipeBySlug(ctx, s.DB, recipeSlug)
}

// Delete removes the recipe identified by slug, after re-checking that the
// acting user is the author or staff. Associated ratings are removed by the
// cascade constraint.
func (s *RecipeService) Delete(ctx context.Context, recipeSlug, actingUserID string, isStaff bool) error {
	if actingUserID == "" {
		return ErrUnauthenticated
	}
	r, err := repo.GetRecipeBySlug(ctx, s.DB, recipeSlug)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	if !canModify(r, actingUserID, isStaff) {
		return ErrPermissionDenied
	}
	return repo.DeleteRecipe(ctx, s.DB, r.ID)
}

// byID loads a recipe by primary key, mapping missing rows to
// ErrRecipeNotFound. Used by the idempotent-replay path.
func (s *RecipeService) byID(ctx context.Context, id string) (*domain.Recipe, error) {
	var r domain.Recipe
	if err := s.DB.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &r, nil
}

// idemTTL returns the configured idempotency TTL with its default applied.
func (s *RecipeService) idemTTL() time.Duration {
	if s.IdempotencyTTL > 0 {
		return s.IdempotencyTTL
	}
	return 24 * time.Hour
}

// canModify is the authorization gate for mutating operations: the acting
// user must be the recipe's author or hold staff privilege. It is evaluated
// on every request, never cached.
func canModify(r *domain.Recipe, actingUserID string, isStaff bool) bool {
	if isStaff {
		return true
	}
	return actingUserID != "" && actingUserID == r.AuthorID
}

// defaultString returns v, or def when v is empty.
func defaultString(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
