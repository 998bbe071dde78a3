package repository

import (
	"context"

	"gorm.io/gorm"

	"postauth/internal/model"
)

// PostRepository defines post persistence operations.
type PostRepository interface {
	List(ctx context.Context) ([]model.Post, error)
	FindByID(ctx context.Context, id uint) (*model.Post, error)
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, post *model.Post) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// List returns all posts with their owners, oldest first.
func (r *postRepository) List(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.WithContext(ctx).Preload("Owner").Order("id").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// FindByID finds a post by ID with its owner loaded.
func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Preload("Owner").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Create creates a new post. The owner association is never upserted.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit("Owner").Create(post).Error
}

// Update persists title and content only; the owner column is never written.
func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Model(post).Select("Title", "Content", "UpdatedAt").Updates(post).Error
}

// Delete deletes a post.
func (r *postRepository) Delete(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Delete(post).Error
}
