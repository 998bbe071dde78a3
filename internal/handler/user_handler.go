package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"postauth/internal/model"
	"postauth/internal/service"
)

// UserHandler bundles user administration handlers.
type UserHandler struct {
	svc   service.UserService
	roles service.RoleService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService, roles service.RoleService) *UserHandler {
	return &UserHandler{svc: svc, roles: roles}
}

// AssignRolesRequest replaces a user's roles with exactly RoleIDs.
type AssignRolesRequest struct {
	RoleIDs []uint `json:"roleIds" validate:"required,min=1,dive,gt=0" example:"1,2"`
}

// CreateUserRequest creates an account with explicit roles.
type CreateUserRequest struct {
	RegisterRequest
	RoleIDs []uint `json:"roleIds" validate:"required,min=1,dive,gt=0"`
}

// AssignRolesResponse is returned after a role replacement.
type AssignRolesResponse struct {
	Message     string        `json:"message" example:"roles updated"`
	UpdatedUser model.Profile `json:"updatedUser"`
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Profile
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	profiles := make([]model.Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].ToProfile())
	}
	return c.JSON(http.StatusOK, profiles)
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.ToProfile())
}

// CreateUser godoc
// @Summary Create user with roles
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "User"
// @Success 201 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.svc.CreateUser(c.Request().Context(), service.CreateUserInput{
		RegisterInput: req.input(),
		RoleIDs:       req.RoleIDs,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user.ToProfile())
}

// SetRoles godoc
// @Summary Replace a user's roles
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body AssignRolesRequest true "Role ids"
// @Success 200 {object} AssignRolesResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/roles [patch]
func (h *UserHandler) SetRoles(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req AssignRolesRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cl, err := claims(c)
	if err != nil {
		return err
	}

	user, err := h.roles.SetUserRoles(c.Request().Context(), cl.Identity.ID, id, req.RoleIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AssignRolesResponse{Message: "roles updated", UpdatedUser: user.ToProfile()})
}
