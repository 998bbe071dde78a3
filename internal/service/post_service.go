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

// PostInput is the payload for creating a post.
type PostInput struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

// PostPatch is a partial update; nil fields are left unchanged.
type PostPatch struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=255"`
	Content *string `json:"content" validate:"omitempty,min=1"`
}

// Actor identifies the authenticated caller of a mutation.
type Actor struct {
	ID    uint
	Roles []string
}

// ActorFromClaims builds an Actor from verified token claims.
func ActorFromClaims(c *auth.Claims) Actor {
	return Actor{ID: c.Identity.ID, Roles: c.Roles}
}

// PostService applies the ownership policy to post mutations.
type PostService interface {
	FindAll(ctx context.Context) ([]model.Post, error)
	FindOne(ctx context.Context, id uint) (*model.Post, error)
	Create(ctx context.Context, in PostInput, authorID uint) (*model.Post, error)
	Update(ctx context.Context, id uint, patch PostPatch, actor Actor) (*model.Post, error)
	Remove(ctx context.Context, id uint, actor Actor) (*model.Post, error)
}

type postService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

// NewPostService creates a new post service.
func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) PostService {
	return &postService{postRepo: postRepo, userRepo: userRepo}
}

func (s *postService) FindAll(ctx context.Context) ([]model.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *postService) FindOne(ctx context.Context, id uint) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound.WithMessage("post %d not found", id)
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return post, nil
}

// Create persists a post owned by authorID.
func (s *postService) Create(ctx context.Context, in PostInput, authorID uint) (*model.Post, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	author, err := s.userRepo.FindByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound.WithMessage("user %d not found", authorID)
		}
		return nil, fmt.Errorf("find author: %w", err)
	}

	post := &model.Post{Title: in.Title, Content: in.Content, OwnerID: author.ID}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	post.Owner = author
	return post, nil
}

// Update merges the patch when the actor owns the post or is an admin.
func (s *postService) Update(ctx context.Context, id uint, patch PostPatch, actor Actor) (*model.Post, error) {
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}

	post, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanModifyOwned(actor.ID, actor.Roles, post.OwnerID) {
		return nil, apperrors.ErrForbiddenPostEdit
	}

	if patch.Title != nil {
		post.Title = *patch.Title
	}
	if patch.Content != nil {
		post.Content = *patch.Content
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

// Remove deletes the post under the same rule as Update and returns it.
func (s *postService) Remove(ctx context.Context, id uint, actor Actor) (*model.Post, error) {
	post, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanModifyOwned(actor.ID, actor.Roles, post.OwnerID) {
		return nil, apperrors.ErrForbiddenPostDelete
	}

	if err := s.postRepo.Delete(ctx, post); err != nil {
		return nil, fmt.Errorf("delete post: %w", err)
	}
	return post, nil
}
