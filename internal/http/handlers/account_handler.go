// Account HTTP handlers.
//
// This file exposes the REST endpoints for registration and login:
//   - POST /auth/register  (create an account)
//   - POST /auth/login     (exchange credentials for a bearer token)
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sizzle-hq/go-recipe-backend/internal/services"
)

// LoginRequest is the JSON payload for logging in.
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"hunter2hunter2"`
}

// LoginResponse carries the signed bearer token and its expiry.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Register godoc
// @ID          register
// @Summary     Register a new account
// @Description Creates an account from username, email, and password.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  services.RegisterInput true "Registration payload"
//
// @Success     201  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse "Validation failed"
// @Failure     409  {object}  handlers.ErrorResponse "Username or email taken"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON payload")
		return
	}

	u, err := h.accountSvc.Register(c.Request.Context(), in)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			failFields(c, http.StatusBadRequest, ErrCodeValidation, "submission has invalid fields", verr.Fields)
		case errors.Is(err, services.ErrAccountExists):
			fail(c, http.StatusConflict, ErrCodeConflict, "username or email already taken")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not create account")
		}
		return
	}
	ok(c, http.StatusCreated, u)
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Verifies credentials and returns a signed bearer token.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest true "Credentials"
//
// @Success     200  {object}  handlers.LoginResponse
// @Failure     400  {object}  handlers.ErrorResponse "Missing fields"
// @Failure     401  {object}  handlers.ErrorResponse "Invalid credentials"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username and password are required")
		return
	}

	token, exp, _, err := h.accountSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid username or password")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not log in")
		return
	}
	ok(c, http.StatusOK, LoginResponse{Token: token, ExpiresAt: exp})
}
