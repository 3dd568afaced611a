// Rating HTTP handlers.
//
// This file exposes the REST endpoint for scoring recipes:
//   - POST /recipes/{slug}/ratings  (submit or revise a 1–5 score)
//
// Submitting twice never creates a second rating row: the prior score is
// overwritten in place and the recipe's average is recomputed in the same
// transaction, so the returned average always reflects the submission.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sizzle-hq/go-recipe-backend/internal/auth"
	"github.com/sizzle-hq/go-recipe-backend/internal/services"
)

// RateRecipeRequest is the JSON payload for scoring a recipe.
type RateRecipeRequest struct {
	// Score is the submitted rating, 1 (worst) through 5 (best).
	Score int `json:"score" binding:"required,min=1,max=5" example:"4"`
}

// RateRecipeResponse returns the recipe's recomputed average after the
// submission was applied.
type RateRecipeResponse struct {
	AverageRating float64 `json:"average_rating" example:"3.5"`
}

// RateRecipe godoc
// @ID          rateRecipe
// @Summary     Rate a recipe
// @Description Records the current user's 1–5 score for the recipe (insert-or-update) and returns the recomputed average rating.
// @Tags        Ratings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       slug  path  string                       true "Recipe slug"
// @Param       body  body  handlers.RateRecipeRequest   true "Rating payload"
//
// @Success     200  {object}  handlers.RateRecipeResponse
// @Failure     400  {object}  handlers.ErrorResponse "Score outside 1–5"
// @Failure     401  {object}  handlers.ErrorResponse "Authentication required"
// @Failure     404  {object}  handlers.ErrorResponse "Recipe not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal server error"
// @Router      /recipes/{slug}/ratings [post]
func (h *Handlers) RateRecipe(c *gin.Context) {
	var req RateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "score must be between 1 and 5")
		return
	}

	userID, _ := auth.Identity(c)

	avg, err := h.ratingSvc.Rate(c.Request.Context(), userID, c.Param("slug"), req.Score)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidScore):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "score must be between 1 and 5")
		case errors.Is(err, services.ErrUnauthenticated):
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		case errors.Is(err, services.ErrRecipeNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not record rating")
		}
		return
	}

	ok(c, http.StatusOK, RateRecipeResponse{AverageRating: avg})
}
