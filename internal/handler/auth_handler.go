package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "postauth/internal/errors"
	"postauth/internal/metrics"
	"postauth/internal/model"
	"postauth/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	metrics     *metrics.Metrics
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{authService: authService, metrics: m}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email" example:"a@x.com"`
	Password string `json:"password" validate:"required,min=8,max=60,maxbytes=72" example:"password1"`
	Name     string `json:"name" validate:"required,max=100" example:"Ann"`
	Age      *int   `json:"age" validate:"required,gte=0,lte=120" example:"30"`
}

func (r RegisterRequest) input() service.RegisterInput {
	in := service.RegisterInput{Email: r.Email, Password: r.Password, Name: r.Name}
	if r.Age != nil {
		in.Age = *r.Age
	}
	return in
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"a@x.com"`
	Password string `json:"password" validate:"required" example:"password1"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Message string `json:"message" example:"registered"`
	Token   string `json:"token"`
}

// TokenResponse carries a freshly issued access token.
type TokenResponse struct {
	Token string `json:"token"`
}

// ProfileResponse wraps the caller's profile.
type ProfileResponse struct {
	User model.Profile `json:"user"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, _, err := h.authService.Register(c.Request().Context(), req.input())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, RegisterResponse{Message: "registered", Token: token})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	h.metrics.LoginAttempt(loginResult(err))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// Profile godoc
// @Summary Current user's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	cl, err := claims(c)
	if err != nil {
		return err
	}

	profile, err := h.authService.GetProfile(c.Request().Context(), cl.Identity.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ProfileResponse{User: *profile})
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, apperrors.ErrTooManyAttempts):
		return "throttled"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return "failure"
	default:
		return "error"
	}
}
