package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"postauth/internal/auth"
	apperrors "postauth/internal/errors"
	"postauth/internal/middleware"
	"postauth/internal/service"
)

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// bind decodes the request body into req and validates it.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.ErrInvalidJSON.Wrap(err)
	}
	return c.Validate(req)
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.ErrValidation.WithMessage("%s must be a positive integer", name)
	}
	return uint(id), nil
}

func claims(c echo.Context) (*auth.Claims, error) {
	cl, ok := middleware.CurrentClaims(c)
	if !ok {
		return nil, apperrors.ErrTokenMissing
	}
	return cl, nil
}

func actor(c echo.Context) (service.Actor, error) {
	cl, err := claims(c)
	if err != nil {
		return service.Actor{}, err
	}
	return service.ActorFromClaims(cl), nil
}
