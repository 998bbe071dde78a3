package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"postauth/internal/model"
	"postauth/internal/service"
)

// PostHandler serves the post resource.
type PostHandler struct {
	svc service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(svc service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// CreatePostRequest is the body of POST /posts.
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

// UpdatePostRequest is the body of PATCH /posts/{id}. Omitted fields are kept.
type UpdatePostRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=255"`
	Content *string `json:"content" validate:"omitempty,min=1"`
}

// List godoc
// @Summary List posts
// @Tags posts
// @Produce json
// @Success 200 {array} model.PostView
// @Router /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.svc.FindAll(c.Request().Context())
	if err != nil {
		return err
	}

	views := make([]model.PostView, 0, len(posts))
	for i := range posts {
		views = append(views, posts[i].View())
	}
	return c.JSON(http.StatusOK, views)
}

// Get godoc
// @Summary Get post by id
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} model.PostView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	post, err := h.svc.FindOne(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post.View())
}

// Create godoc
// @Summary Create a post owned by the caller
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePostRequest true "Post"
// @Success 201 {object} model.PostView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req CreatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cl, err := claims(c)
	if err != nil {
		return err
	}

	post, err := h.svc.Create(c.Request().Context(), service.PostInput{Title: req.Title, Content: req.Content}, cl.Identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post.View())
}

// Update godoc
// @Summary Update a post (owner or admin)
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body UpdatePostRequest true "Fields to change"
// @Success 200 {object} model.PostView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id} [patch]
func (h *PostHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req UpdatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	a, err := actor(c)
	if err != nil {
		return err
	}

	post, err := h.svc.Update(c.Request().Context(), id, service.PostPatch{Title: req.Title, Content: req.Content}, a)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post.View())
}

// Delete godoc
// @Summary Delete a post (owner or admin)
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} model.PostView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	a, err := actor(c)
	if err != nil {
		return err
	}

	post, err := h.svc.Remove(c.Request().Context(), id, a)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post.View())
}
