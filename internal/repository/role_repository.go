package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"postauth/internal/model"
)

// RoleRepository defines role persistence operations.
type RoleRepository interface {
	List(ctx context.Context) ([]model.Role, error)
	FindByID(ctx context.Context, id uint) (*model.Role, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Role, error)
	FindByName(ctx context.Context, name string) (*model.Role, error)
	Create(ctx context.Context, role *model.Role) error
	Update(ctx context.Context, role *model.Role) error
	Delete(ctx context.Context, role *model.Role) error
	MemberIDs(ctx context.Context, roleID uint) ([]uint, error)
	EnsureByName(ctx context.Context, name string) (*model.Role, bool, error)
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository.
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

// List returns all roles ordered by id.
func (r *roleRepository) List(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	if err := r.db.WithContext(ctx).Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// FindByID finds a role by ID.
func (r *roleRepository) FindByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByIDs returns the roles that exist among ids. Missing ids are simply absent.
func (r *roleRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Role, error) {
	var roles []model.Role
	if len(ids) == 0 {
		return roles, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// FindByName finds a role by its unique name.
func (r *roleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// Create creates a new role.
func (r *roleRepository) Create(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

// Update renames a role.
func (r *roleRepository) Update(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Model(role).Select("Name", "UpdatedAt").Updates(role).Error
}

// Delete removes the role and every membership referencing it.
func (r *roleRepository) Delete(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(role).Association("Users").Clear(); err != nil {
			return err
		}
		return tx.Delete(role).Error
	})
}

// MemberIDs returns the ids of users holding the role.
func (r *roleRepository) MemberIDs(ctx context.Context, roleID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Table("user_roles").
		Where("role_id = ?", roleID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// EnsureByName returns the named role, creating it if absent.
// A concurrent creator winning the unique index is treated as success.
func (r *roleRepository) EnsureByName(ctx context.Context, name string) (*model.Role, bool, error) {
	role := &model.Role{Name: name}
	err := r.db.WithContext(ctx).Create(role).Error
	if err == nil {
		return role, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, err
	}

	existing, err := r.FindByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}
