// Recipe HTTP handlers.
//
// This file exposes REST endpoints for recipe resources:
//   - GET    /recipes          (list, paginated + searchable)
//   - POST   /recipes          (create; supports Idempotency-Key replay)
//   - GET    /recipes/{slug}   (detail)
//   - PUT    /recipes/{slug}   (edit, author/staff only)
//   - DELETE /recipes/{slug}   (delete, author/staff only)
//
// Handlers are transport-thin: they validate input, delegate to application
// services, and translate domain/service errors into HTTP results.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sizzle-hq/go-recipe-backend/internal/auth"
	"github.com/sizzle-hq/go-recipe-backend/internal/domain"
	"github.com/sizzle-hq/go-recipe-backend/internal/http/middleware"
	"github.com/sizzle-hq/go-recipe-backend/internal/services"
	"github.com/sizzle-hq/go-recipe-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// RecipeService defines recipe lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type RecipeService interface {
	// Create persists a new recipe authored by userID, assigning a unique slug.
	Create(ctx context.Context, userID string, in services.RecipeInput, idemKey string) (*domain.Recipe, bool, error)
	// Get fetches a recipe by slug with draft visibility applied.
	Get(ctx context.Context, slug, actingUserID string, isStaff bool) (*domain.Recipe, error)
	// ListPage returns a page of published recipes matching query, plus the total.
	ListPage(ctx context.Context, query string, page, pageSize int) ([]domain.Recipe, int64, error)
	// Update edits a recipe after re-checking the author/staff gate.
	Update(ctx context.Context, slug, actingUserID string, isStaff bool, in services.RecipeInput) (*domain.Recipe, error)
	// Delete removes a recipe after re-checking the author/staff gate.
	Delete(ctx context.Context, slug, actingUserID string, isStaff bool) error
}

// RatingService defines rating submission consumed by HTTP handlers.
type RatingService interface {
	// Rate upserts userID's score for the recipe and returns the new average.
	Rate(ctx context.Context, userID, recipeSlug string, score int) (float64, error)
}

// AccountService defines registration and login consumed by HTTP handlers.
type AccountService interface {
	// Register creates a new account from the submitted fields.
	Register(ctx context.Context, in services.RegisterInput) (*domain.User, error)
	// Login verifies credentials and returns a signed bearer token.
	Login(ctx context.Context, username, password string) (string, time.Time, *domain.User, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for accounts, recipes, and ratings.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	recipeSvc  RecipeService
	ratingSvc  RatingService
	accountSvc AccountService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(recipeSvc RecipeService, ratingSvc RatingService, accountSvc AccountService) *Handlers {
	return &Handlers{recipeSvc: recipeSvc, ratingSvc: ratingSvc, accountSvc: accountSvc}
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListRecipesResponse wraps a page of recipes and pagination information.
type ListRecipesResponse struct {
	Recipes    []domain.Recipe `json:"recipes"`
	Pagination Pagination      `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params,
// returning (page, pageSize). The listing defaults to 6 recipes per page.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 6
		maxPageSize     = 50
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// failRecipeErr maps shared recipe service errors to HTTP results. Returns
// false when err was not handled (caller decides).
func failRecipeErr(c *gin.Context, err error) bool {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		failFields(c, http.StatusBadRequest, ErrCodeValidation, "submission has invalid fields", verr.Fields)
	case errors.Is(err, services.ErrRecipeNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
	case errors.Is(err, services.ErrPermissionDenied):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "only the author or staff may modify this recipe")
	case errors.Is(err, services.ErrUnauthenticated):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
	case errors.Is(err, services.ErrSlugExhausted):
		fail(c, http.StatusConflict, ErrCodeSlugExhausted, "could not assign a unique slug, please retry")
	default:
		return false
	}
	return true
}

//
// Handlers
//

// ListRecipes godoc
// @ID          listRecipes
// @Summary     List published recipes
// @Description Returns published recipes, newest first, optionally filtered by a search query.
// @Tags        Recipes
// @Produce     json
//
// @Param       q          query  string false "Search query (title, description, ingredients)"
// @Param       page       query  int    false "Page number (1-based)"       default(1)
// @Param       page_size  query  int    false "Page size (max 50)"          default(6)
//
// @Success     200  {object}  handlers.ListRecipesResponse
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /recipes [get]
func (h *Handlers) ListRecipes(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.recipeSvc.ListPage(c.Request.Context(), c.Query("q"), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not list recipes")
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListRecipesResponse{
		Recipes: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// CreateRecipe godoc
// @ID          createRecipe
// @Summary     Create a recipe
// @Description Creates a recipe authored by the current user. The slug is derived from the title and made unique; retried submissions carrying the same Idempotency-Key replay the original recipe.
// @Tags        Recipes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       Idempotency-Key  header  string false "Stable key for safe retries"
// @Param       body             body    services.RecipeInput true "Recipe fields"
//
// @Success     201  {object}  domain.Recipe
// @Success     200  {object}  domain.Recipe "Replayed prior creation"
// @Failure     400  {object}  handlers.ErrorResponse "Validation failed"
// @Failure     401  {object}  handlers.ErrorResponse "Authentication required"
// @Failure     409  {object}  handlers.ErrorResponse "Slug assignment exhausted"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /recipes [post]
func (h *Handlers) CreateRecipe(c *gin.Context) {
	var in services.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON payload")
		return
	}

	userID, _ := auth.Identity(c)
	idemKey, _ := middleware.GetIdempotencyKey(c)

	rec, replayed, err := h.recipeSvc.Create(c.Request.Context(), userID, in, idemKey)
	if err != nil {
		if !failRecipeErr(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not create recipe")
		}
		return
	}
	if replayed {
		ok(c, http.StatusOK, rec)
		return
	}
	ok(c, http.StatusCreated, rec)
}

// GetRecipe godoc
// @ID          getRecipe
// @Summary     Fetch a recipe by slug
// @Description Returns a single recipe. Drafts are visible only to their author or staff.
// @Tags        Recipes
// @Produce     json
//
// @Param       slug  path  string true "Recipe slug" example(spicy-tomato-soup)
//
// @Success     200  {object}  domain.Recipe
// @Failure     404  {object}  handlers.ErrorResponse "Recipe not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /recipes/{slug} [get]
func (h *Handlers) GetRecipe(c *gin.Context) {
	userID, isStaff := auth.Identity(c)

	rec, err := h.recipeSvc.Get(c.Request.Context(), c.Param("slug"), userID, isStaff)
	if err != nil {
		if !failRecipeErr(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not load recipe")
		}
		return
	}
	ok(c, http.StatusOK, rec)
}

// UpdateRecipe godoc
// @ID          updateRecipe
// @Summary     Edit a recipe
// @Description Updates a recipe's fields. Only the author or staff may edit; the slug never changes, even when the title does.
// @Tags        Recipes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       slug  path  string               true "Recipe slug"
// @Param       body  body  services.RecipeInput true "Updated fields"
//
// @Success     200  {object}  domain.Recipe
// @Failure     400  {object}  handlers.ErrorResponse "Validation failed"
// @Failure     401  {object}  handlers.ErrorResponse "Authentication required"
// @Failure     403  {object}  handlers.ErrorResponse "Not the author or staff"
// @Failure     404  {object}  handlers.ErrorResponse "Recipe not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /recipes/{slug} [put]
func (h *Handlers) UpdateRecipe(c *gin.Context) {
	var in services.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON payload")
		return
	}

	userID, isStaff := auth.Identity(c)

	rec, err := h.recipeSvc.Update(c.Request.Context(), c.Param("slug"), userID, isStaff, in)
	if err != nil {
		if !failRecipeErr(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not update recipe")
		}
		return
	}
	ok(c, http.StatusOK, rec)
}

// DeleteRecipe godoc
// @ID          deleteRecipe
// @Summary     Delete a recipe
// @Description Deletes a recipe and, by cascade, its ratings. Only the author or staff may delete.
// @Tags        Recipes
// @Produce     json
// @Security    BearerAuth
//
// @Param       slug  path  string true "Recipe slug"
//
// @Success     204  {string}  string "No Content"
// @Failure     401  {object}  handlers.ErrorResponse "Authentication required"
// @Failure     403  {object}  handlers.ErrorResponse "Not the author or staff"
// @Failure     404  {object}  handlers.ErrorResponse "Recipe not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /recipes/{slug} [delete]
func (h *Handlers) DeleteRecipe(c *gin.Context) {
	userID, isStaff := auth.Identity(c)

	if err := h.recipeSvc.Delete(c.Request.Context(), c.Param("slug"), userID, isStaff); err != nil {
		if !failRecipeErr(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not delete recipe")
		}
		return
	}
	noContent(c)
}
