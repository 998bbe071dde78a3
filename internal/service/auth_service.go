package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"postauth/internal/auth"
	apperrors "postauth/internal/errors"
	"postauth/internal/model"
	"postauth/internal/repository"
	"postauth/internal/validation"
)

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=60,maxbytes=72"`
	Name     string `json:"name" validate:"required,max=100"`
	Age      int    `json:"age" validate:"gte=0,lte=120"`
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (token string, user *model.User, err error)
	Login(ctx context.Context, email, password string) (token string, err error)
	GetProfile(ctx context.Context, userID uint) (*model.Profile, error)
}

type authService struct {
	userRepo   repository.UserRepository
	roleRepo   repository.RoleRepository
	jwtService *auth.JWTService
	hasher     auth.PasswordHasher
	throttle   auth.LoginThrottleInterface
	profiles   *ProfileCache

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	jwtService *auth.JWTService,
	hasher auth.PasswordHasher,
	throttle auth.LoginThrottleInterface,
	profiles *ProfileCache,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		jwtService: jwtService,
		hasher:     hasher,
		throttle:   throttle,
		profiles:   profiles,
	}
}

// Register creates a user holding the default role and returns a token for it.
func (s *authService) Register(ctx context.Context, in RegisterInput) (string, *model.User, error) {
	if err := validation.Struct(in); err != nil {
		return "", nil, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return "", nil, apperrors.ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, fmt.Errorf("check email existence: %w", err)
	}

	role, err := s.roleRepo.FindByName(ctx, model.RoleUser)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrRoleNotFound.WithMessage("default role %q not found", model.RoleUser)
		}
		return "", nil, fmt.Errorf("find default role: %w", err)
	}

	user, err := createUser(ctx, s.userRepo, s.hasher, in, []model.Role{*role})
	if err != nil {
		return "", nil, err
	}

	token, err := s.jwtService.Issue(identityOf(user))
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Login verifies credentials and issues a token. Unknown emails and wrong
// passwords fail identically.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	if s.throttle.Blocked(ctx, email) {
		return "", apperrors.ErrTooManyAttempts
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("find user: %w", err)
		}
		s.hasher.Verify(s.dummy(), password)
		s.throttle.RecordFailure(ctx, email)
		return "", apperrors.ErrInvalidCredentials
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		s.throttle.RecordFailure(ctx, email)
		return "", apperrors.ErrInvalidCredentials
	}
	s.throttle.Reset(ctx, email)

	token, err := s.jwtService.Issue(identityOf(user))
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// GetProfile returns the user's profile with role names resolved.
func (s *authService) GetProfile(ctx context.Context, userID uint) (*model.Profile, error) {
	if cached, ok := s.profiles.Get(ctx, userID); ok {
		return cached, nil
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	profile := user.ToProfile()
	s.profiles.Set(ctx, &profile)
	return &profile, nil
}

// dummy returns a hash compared against when the email is unknown, so both
// failure paths spend the same bcrypt time.
func (s *authService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("dummy-password-for-timing")
	})
	return s.dummyHash
}

func identityOf(user *model.User) auth.Identity {
	return auth.Identity{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Age:   user.Age,
		Roles: user.RoleNames(),
	}
}

// createUser hashes the password and persists the user with roles in one insert.
func createUser(ctx context.Context, users repository.UserRepository, hasher auth.PasswordHasher, in RegisterInput, roles []model.Role) (*model.User, error) {
	hashed, err := hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperrors.ErrValidation.WithMessage("password must be at most 72 bytes").Wrap(err)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        in.Email,
		PasswordHash: hashed,
		Name:         in.Name,
		Age:          in.Age,
		Roles:        roles,
	}
	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}
