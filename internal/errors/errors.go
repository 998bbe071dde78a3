package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies a failure independently of its specific code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindTooManyRequests
)

// AppError is a typed failure raised by the service layer.
type AppError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

// New creates an AppError.
func New(kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on code so a re-messaged sentinel still satisfies errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMessage returns a copy carrying a more specific message.
func (e *AppError) WithMessage(format string, args ...any) *AppError {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// Wrap returns a copy that keeps err as its cause.
func (e *AppError) Wrap(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

var (
	// ErrValidation is returned when input fails field-level validation.
	ErrValidation = New(KindValidation, "ValidationError", "validation failed")
	// ErrInvalidJSON is returned when a request body cannot be decoded.
	ErrInvalidJSON = New(KindValidation, "InvalidJsonFormat", "invalid JSON body")

	// ErrInvalidCredentials is returned for any failed login.
	ErrInvalidCredentials = New(KindUnauthorized, "InvalidCredentials", "invalid email or password")
	// ErrTokenMissing is returned when no bearer token is presented.
	ErrTokenMissing = New(KindUnauthorized, "TokenMissing", "token missing")
	// ErrTokenExpired is returned when a token is past its expiry.
	ErrTokenExpired = New(KindUnauthorized, "TokenExpired", "token expired")
	// ErrTokenInvalid is returned when a token is malformed or its signature does not verify.
	ErrTokenInvalid = New(KindUnauthorized, "TokenInvalid", "token invalid")

	// ErrInsufficientRole is returned when none of the required roles is held.
	ErrInsufficientRole = New(KindForbidden, "InsufficientRole", "insufficient role")
	// ErrSelfRoleModification is returned when an admin targets their own role set.
	ErrSelfRoleModification = New(KindForbidden, "SelfRoleModificationForbidden", "cannot modify your own roles")
	// ErrForbiddenPostEdit is returned when a non-owner non-admin edits a post.
	ErrForbiddenPostEdit = New(KindForbidden, "ForbiddenPostEdit", "you can only edit your own post")
	// ErrForbiddenPostDelete is returned when a non-owner non-admin deletes a post.
	ErrForbiddenPostDelete = New(KindForbidden, "ForbiddenPostDelete", "you can only delete your own post")

	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = New(KindNotFound, "UserNotFound", "user not found")
	// ErrRoleNotFound is returned when a role is not found.
	ErrRoleNotFound = New(KindNotFound, "RoleNotFound", "role not found")
	// ErrPostNotFound is returned when a post is not found.
	ErrPostNotFound = New(KindNotFound, "PostNotFound", "post not found")
	// ErrRouteNotFound is returned for unknown routes.
	ErrRouteNotFound = New(KindNotFound, "RouteNotFound", "route not found")

	// ErrEmailAlreadyExists is returned when the email is already registered.
	ErrEmailAlreadyExists = New(KindConflict, "EmailAlreadyExists", "email already registered")
	// ErrRoleAlreadyExists is returned when the role name is taken.
	ErrRoleAlreadyExists = New(KindConflict, "RoleAlreadyExists", "role already exists")

	// ErrTooManyAttempts is returned while an email is locked out after repeated login failures.
	ErrTooManyAttempts = New(KindTooManyRequests, "TooManyAttempts", "too many failed login attempts, try again later")

	// ErrInternal is the generic failure exposed for anything unrecognized.
	ErrInternal = New(KindInternal, "InternalServerError", "internal server error")
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	ErrorCode  string `json:"errorCode"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to the envelope for the given request path.
func (e *HTTPError) ToErrorResponse(path string, now time.Time) ErrorResponse {
	return ErrorResponse{
		StatusCode: e.StatusCode,
		ErrorCode:  e.Code,
		Message:    e.Message,
		Timestamp:  now.UTC().Format(time.RFC3339),
		Path:       path,
	}
}

// StatusFor returns the HTTP status for a failure kind.
func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Anything that is not an AppError becomes a generic internal error.
func MapErrorToHTTP(err error) *HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return NewHTTPError(StatusFor(appErr.Kind), appErr.Message, appErr.Code)
	}
	return NewHTTPError(http.StatusInternalServerError, ErrInternal.Message, ErrInternal.Code)
}

// IsInternal reports whether err would surface as a 500.
func IsInternal(err error) bool {
	var appErr *AppError
	return !errors.As(err, &appErr) || appErr.Kind == KindInternal
}
