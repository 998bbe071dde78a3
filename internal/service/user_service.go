package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"postauth/internal/auth"
	apperrors "postauth/internal/errors"
	"postauth/internal/model"
	"postauth/internal/repository"
	"postauth/internal/validation"
)

// CreateUserInput is an account created by an administrator with explicit roles.
type CreateUserInput struct {
	RegisterInput
	RoleIDs []uint `json:"roleIds" validate:"required,min=1,dive,gt=0"`
}

// UserService exposes user administration.
type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	EnsureAdmin(ctx context.Context, in RegisterInput) (user *model.User, created bool, err error)
}

type userService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	hasher   auth.PasswordHasher
	profiles *ProfileCache
}

// NewUserService builds a UserService.
func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, hasher auth.PasswordHasher, profiles *ProfileCache) UserService {
	return &userService{userRepo: userRepo, roleRepo: roleRepo, hasher: hasher, profiles: profiles}
}

func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	ids := uniqueIDs(in.RoleIDs)
	found, err := s.roleRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}
	if len(found) != len(ids) {
		return nil, apperrors.ErrRoleNotFound.WithMessage("role %d not found", firstMissing(ids, found))
	}

	return createUser(ctx, s.userRepo, s.hasher, in.RegisterInput, found)
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound.WithMessage("user %d not found", id)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// EnsureAdmin grants the admin role to the account with in.Email, creating the
// account first when it does not exist.
func (s *userService) EnsureAdmin(ctx context.Context, in RegisterInput) (*model.User, bool, error) {
	admin, err := s.roleRepo.FindByName(ctx, model.RoleAdmin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperrors.ErrRoleNotFound.WithMessage("role %q not found", model.RoleAdmin)
		}
		return nil, false, fmt.Errorf("find admin role: %w", err)
	}

	user, err := s.userRepo.FindByEmail(ctx, in.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := validation.Struct(in); err != nil {
			return nil, false, err
		}
		roles := []model.Role{*admin}
		if member, err := s.roleRepo.FindByName(ctx, model.RoleUser); err == nil {
			roles = append([]model.Role{*member}, roles...)
		}
		user, err := createUser(ctx, s.userRepo, s.hasher, in, roles)
		if err != nil {
			return nil, false, err
		}
		return user, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find user: %w", err)
	}

	if auth.HasAnyRole(user.RoleNames(), model.RoleAdmin) {
		return user, false, nil
	}
	if err := s.userRepo.AddRole(ctx, user, admin); err != nil {
		return nil, false, fmt.Errorf("grant admin: %w", err)
	}
	s.profiles.Invalidate(ctx, user.ID)
	return user, false, nil
}

func firstMissing(ids []uint, found []model.Role) uint {
	have := make(map[uint]struct{}, len(found))
	for _, r := range found {
		have[r.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := have[id]; !ok {
			return id
		}
	}
	return 0
}
