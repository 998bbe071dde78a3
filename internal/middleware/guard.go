package middleware

import (
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"postauth/internal/auth"
	apperrors "postauth/internal/errors"
	"postauth/internal/logger"
	"postauth/internal/metrics"
)

const (
	claimsContextKey = "claims"
	verifyErrKey     = "auth.verify_error"
)

// Guard authenticates bearer tokens and enforces role requirements.
type Guard struct {
	jwt     *auth.JWTService
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewGuard creates a Guard.
func NewGuard(jwtService *auth.JWTService, m *metrics.Metrics, log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{jwt: jwtService, metrics: m, log: log}
}

// Authenticate requires a valid bearer token and attaches its claims to the
// echo context and the request context.
func (g *Guard) Authenticate() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			if token == "" {
				c.Set(verifyErrKey, apperrors.ErrTokenMissing)
				return nil, apperrors.ErrTokenMissing
			}
			claims, err := g.jwt.Verify(token)
			if err != nil {
				c.Set(verifyErrKey, err)
				return nil, err
			}
			req := c.Request()
			ctx := auth.WithClaims(req.Context(), claims)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.UserID(claims.Identity.ID)))
			c.SetRequest(req.WithContext(ctx))
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			denied := classify(c, err)
			g.deny(c, denied)
			return denied
		},
	})
}

// RequireRoles allows the request when the caller holds any of roles.
// With no roles every authenticated caller passes.
func (g *Guard) RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := CurrentClaims(c)
			if !ok {
				g.deny(c, apperrors.ErrTokenMissing)
				return apperrors.ErrTokenMissing
			}
			if !auth.HasAnyRole(claims.Roles, roles...) {
				g.deny(c, apperrors.ErrInsufficientRole)
				return apperrors.ErrInsufficientRole
			}
			return next(c)
		}
	}
}

// CurrentClaims returns the claims attached by Authenticate.
func CurrentClaims(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(*auth.Claims)
	if ok && claims != nil {
		return claims, true
	}
	return auth.ClaimsFrom(c.Request().Context())
}

// classify turns an echo-jwt failure into a typed token error. The parser
// never ran when no bearer token could be extracted.
func classify(c echo.Context, err error) *apperrors.AppError {
	recorded, ok := c.Get(verifyErrKey).(error)
	if !ok {
		return apperrors.ErrTokenMissing.Wrap(err)
	}
	var appErr *apperrors.AppError
	if errors.As(recorded, &appErr) {
		return appErr
	}
	return apperrors.ErrTokenInvalid.Wrap(recorded)
}

func (g *Guard) deny(c echo.Context, err *apperrors.AppError) {
	reason := denialReason(err)
	g.metrics.AuthDenied(reason)
	g.log.Debug("request denied",
		zap.String("reason", reason),
		zap.String("path", c.Path()),
		logger.RequestID(c.Response().Header().Get(echo.HeaderXRequestID)),
		zap.Error(err),
	)
}

func denialReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrTokenMissing):
		return "missing"
	case errors.Is(err, apperrors.ErrTokenExpired):
		return "expired"
	case errors.Is(err, apperrors.ErrInsufficientRole):
		return "forbidden"
	default:
		return "invalid"
	}
}
