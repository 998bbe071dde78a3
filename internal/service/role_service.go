package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "postauth/internal/errors"
	"postauth/internal/model"
	"postauth/internal/repository"
)

// RoleService manages role definitions and user role assignment.
type RoleService interface {
	ListRoles(ctx context.Context) ([]model.Role, error)
	GetRole(ctx context.Context, id uint) (*model.Role, error)
	CreateRole(ctx context.Context, name string) (*model.Role, error)
	UpdateRole(ctx context.Context, id uint, name string) (*model.Role, error)
	DeleteRole(ctx context.Context, id uint) (*model.Role, error)
	SetUserRoles(ctx context.Context, actorID, targetID uint, roleIDs []uint) (*model.User, error)
	EnsureDefaultRoles(ctx context.Context) error
}

type roleService struct {
	roleRepo repository.RoleRepository
	userRepo repository.UserRepository
	profiles *ProfileCache
	log      *zap.Logger
}

// NewRoleService creates a new role service.
func NewRoleService(roleRepo repository.RoleRepository, userRepo repository.UserRepository, profiles *ProfileCache, log *zap.Logger) RoleService {
	if log == nil {
		log = zap.NewNop()
	}
	return &roleService{
		roleRepo: roleRepo,
		userRepo: userRepo,
		profiles: profiles,
		log:      log,
	}
}

func (s *roleService) ListRoles(ctx context.Context) ([]model.Role, error) {
	roles, err := s.roleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

func (s *roleService) GetRole(ctx context.Context, id uint) (*model.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRoleNotFound.WithMessage("role %d not found", id)
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return role, nil
}

func (s *roleService) CreateRole(ctx context.Context, name string) (*model.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrValidation.WithMessage("name is required")
	}
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	role := &model.Role{Name: name}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrRoleAlreadyExists.WithMessage("role %q already exists", name)
		}
		return nil, fmt.Errorf("create role: %w", err)
	}
	return role, nil
}

func (s *roleService) UpdateRole(ctx context.Context, id uint, name string) (*model.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrValidation.WithMessage("name is required")
	}

	role, err := s.GetRole(ctx, id)
	if err != nil {
		return nil, err
	}
	if role.Name == name {
		return role, nil
	}
	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return nil, err
	}

	role.Name = name
	if err := s.roleRepo.Update(ctx, role); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrRoleAlreadyExists.WithMessage("role %q already exists", name)
		}
		return nil, fmt.Errorf("update role: %w", err)
	}

	s.invalidateMembers(ctx, id)
	return role, nil
}

// DeleteRole removes the role and its memberships and returns the deleted record.
func (s *roleService) DeleteRole(ctx context.Context, id uint) (*model.Role, error) {
	role, err := s.GetRole(ctx, id)
	if err != nil {
		return nil, err
	}

	members, err := s.roleRepo.MemberIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list role members: %w", err)
	}
	if err := s.roleRepo.Delete(ctx, role); err != nil {
		return nil, fmt.Errorf("delete role: %w", err)
	}

	s.profiles.Invalidate(ctx, members...)
	return role, nil
}

// SetUserRoles replaces the target's role set with exactly roleIDs.
// An actor may never change their own roles.
func (s *roleService) SetUserRoles(ctx context.Context, actorID, targetID uint, roleIDs []uint) (*model.User, error) {
	if actorID == targetID {
		return nil, apperrors.ErrSelfRoleModification
	}
	ids := uniqueIDs(roleIDs)
	if len(ids) == 0 {
		return nil, apperrors.ErrValidation.WithMessage("roleIds must contain at least one role id")
	}

	user, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound.WithMessage("user %d not found", targetID)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	roles, err := s.resolveRoles(ctx, ids)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.ReplaceRoles(ctx, user, roles); err != nil {
		return nil, fmt.Errorf("replace roles: %w", err)
	}
	user.Roles = roles

	s.profiles.Invalidate(ctx, user.ID)
	s.log.Info("user roles replaced",
		zap.Uint("actor_id", actorID),
		zap.Uint("target_id", targetID),
		zap.Strings("roles", user.RoleNames()),
	)
	return user, nil
}

// EnsureDefaultRoles creates the built-in roles if missing. Safe to run repeatedly
// and concurrently.
func (s *roleService) EnsureDefaultRoles(ctx context.Context) error {
	for _, name := range model.DefaultRoles {
		role, created, err := s.roleRepo.EnsureByName(ctx, name)
		if err != nil {
			return fmt.Errorf("ensure role %q: %w", name, err)
		}
		if created {
			s.log.Info("role created", zap.String("role", name), zap.Uint("id", role.ID))
		} else {
			s.log.Debug("role exists", zap.String("role", name), zap.Uint("id", role.ID))
		}
	}
	return nil
}

// resolveRoles loads every id, failing on the first one that does not exist.
func (s *roleService) resolveRoles(ctx context.Context, ids []uint) ([]model.Role, error) {
	found, err := s.roleRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}

	byID := make(map[uint]model.Role, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}

	roles := make([]model.Role, 0, len(ids))
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			return nil, apperrors.ErrRoleNotFound.WithMessage("role %d not found", id)
		}
		roles = append(roles, r)
	}
	return roles, nil
}

func (s *roleService) ensureNameFree(ctx context.Context, name string, selfID uint) error {
	existing, err := s.roleRepo.FindByName(ctx, name)
	if err == nil && existing != nil && existing.ID != selfID {
		return apperrors.ErrRoleAlreadyExists.WithMessage("role %q already exists", name)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check role name: %w", err)
	}
	return nil
}

func (s *roleService) invalidateMembers(ctx context.Context, roleID uint) {
	members, err := s.roleRepo.MemberIDs(ctx, roleID)
	if err != nil {
		s.log.Warn("list role members for cache invalidation", zap.Uint("role_id", roleID), zap.Error(err))
		return
	}
	s.profiles.Invalidate(ctx, members...)
}

func uniqueIDs(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
