package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"postauth/internal/service"
)

// RoleHandler serves admin role management.
type RoleHandler struct {
	svc service.RoleService
}

// NewRoleHandler creates a new role handler.
func NewRoleHandler(svc service.RoleService) *RoleHandler {
	return &RoleHandler{svc: svc}
}

// RoleRequest is the body for creating or renaming a role.
type RoleRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100" example:"editor"`
}

// List godoc
// @Summary List roles
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Role
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.svc.ListRoles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roles)
}

// Get godoc
// @Summary Get role by id
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} model.Role
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	role, err := h.svc.GetRole(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}

// Create godoc
// @Summary Create role
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RoleRequest true "Role"
// @Success 201 {object} model.Role
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req RoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	role, err := h.svc.CreateRole(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, role)
}

// Update godoc
// @Summary Rename role
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param request body RoleRequest true "Role"
// @Success 200 {object} model.Role
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /roles/{id} [patch]
func (h *RoleHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req RoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	role, err := h.svc.UpdateRole(c.Request().Context(), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}

// Delete godoc
// @Summary Delete role and its memberships
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} model.Role
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	role, err := h.svc.DeleteRole(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}
