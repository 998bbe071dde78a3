package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "postauth/internal/errors"
)

// AccessTokenExpiry is the default lifetime of issued tokens.
const AccessTokenExpiry = time.Hour

// Identity is the user snapshot embedded in a token.
type Identity struct {
	ID    uint     `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Age   int      `json:"age"`
	Roles []string `json:"roles"`
}

// Claims represents JWT claims.
type Claims struct {
	Identity
	jwt.RegisteredClaims
}

// HasRole reports whether the claims carry the role.
func (c *Claims) HasRole(role string) bool {
	return HasAnyRole(c.Roles, role)
}

// JWTService issues and verifies signed tokens.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customizes a JWTService.
type Option func(*JWTService)

// WithTTL overrides the token lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *JWTService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) {
		s.now = now
	}
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string, opts ...Option) *JWTService {
	s := &JWTService{
		secret: []byte(secret),
		ttl:    AccessTokenExpiry,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the lifetime of issued tokens.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token carrying the identity.
func (s *JWTService) Issue(id Identity) (string, error) {
	now := s.now()
	id.Roles = NormalizeRoles(id.Roles)
	claims := &Claims{
		Identity: id,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(id.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a token and returns its claims.
// Failures are ErrTokenExpired or ErrTokenInvalid.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	var claims Claims
	token, err := parser.ParseWithClaims(strings.TrimSpace(tokenString), &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired.Wrap(err)
		}
		return nil, apperrors.ErrTokenInvalid.Wrap(err)
	}
	if !token.Valid || claims.Identity.ID == 0 {
		return nil, apperrors.ErrTokenInvalid
	}

	claims.Roles = NormalizeRoles(claims.Roles)
	return &claims, nil
}
