package router

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "postauth/internal/errors"
	"postauth/internal/logger"
	"postauth/internal/validation"
)

// ErrorHandler writes every failure as the uniform error envelope.
// Internal failures are logged and reported with a generic message.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		httpErr := toHTTPError(err)
		if httpErr.StatusCode >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				logger.RequestID(c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Error(err),
			)
		}

		body := httpErr.ToErrorResponse(c.Request().URL.Path, time.Now())
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(httpErr.StatusCode)
		} else {
			err = c.JSON(httpErr.StatusCode, body)
		}
		if err != nil {
			log.Warn("write error response", zap.Error(err))
		}
	}
}

func toHTTPError(err error) *apperrors.HTTPError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return apperrors.MapErrorToHTTP(appErr)
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return apperrors.MapErrorToHTTP(validation.FromError(fieldErrs))
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound:
			return apperrors.MapErrorToHTTP(apperrors.ErrRouteNotFound)
		case http.StatusMethodNotAllowed:
			return apperrors.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed", "MethodNotAllowed")
		case http.StatusUnauthorized:
			return apperrors.MapErrorToHTTP(apperrors.ErrTokenMissing)
		case http.StatusRequestEntityTooLarge:
			return apperrors.NewHTTPError(he.Code, "request body too large", "PayloadTooLarge")
		}
		if he.Code < http.StatusInternalServerError {
			return apperrors.MapErrorToHTTP(apperrors.ErrValidation.WithMessage("%s", http.StatusText(he.Code)))
		}
	}

	return apperrors.MapErrorToHTTP(err)
}
