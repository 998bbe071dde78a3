package repository

import (
	"context"

	"gorm.io/gorm"

	"postauth/internal/model"
)

// UserRepository defines persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ReplaceRoles(ctx context.Context, user *model.User, roles []model.Role) error
	AddRole(ctx context.Context, user *model.User, role *model.Role) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user together with the join rows for user.Roles.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Roles").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Preload("Roles").Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ReplaceRoles overwrites the user's role set with roles in one transaction.
func (r *userRepository) ReplaceRoles(ctx context.Context, user *model.User, roles []model.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(user).Association("Roles").Replace(roles)
	})
}

// AddRole appends a single membership, keeping existing ones.
func (r *userRepository) AddRole(ctx context.Context, user *model.User, role *model.Role) error {
	return r.db.WithContext(ctx).Model(user).Association("Roles").Append(role)
}
