package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"postauth/internal/auth"
	apperrors "postauth/internal/errors"
	"postauth/internal/model"
)

func strPtr(s string) *string { return &s }

func ownedPost() *model.Post {
	return &model.Post{ID: 10, Title: "old", Content: "body", OwnerID: 3, Owner: &model.User{ID: 3, Name: "Owner"}}
}

func TestPostService_Update_OwnershipGate(t *testing.T) {
	tests := []struct {
		name          string
		actor         Actor
		expectedError error
	}{
		{name: "owner", actor: Actor{ID: 3, Roles: []string{"user"}}},
		{name: "non-owner non-admin", actor: Actor{ID: 4, Roles: []string{"user"}}, expectedError: apperrors.ErrForbiddenPostEdit},
		{name: "admin non-owner", actor: Actor{ID: 99, Roles: []string{"user", "admin"}}},
		{name: "non-owner with differently cased role", actor: Actor{ID: 4, Roles: []string{"Admin"}}, expectedError: apperrors.ErrForbiddenPostEdit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := new(MockPostRepository)
			posts.On("FindByID", mock.Anything, uint(10)).Return(ownedPost(), nil)
			if tt.expectedError == nil {
				posts.On("Update", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)
			}
			svc := NewPostService(posts, new(MockUserRepository))

			post, err := svc.Update(context.Background(), 10, PostPatch{Title: strPtr("new")}, tt.actor)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, post)
				posts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "new", post.Title)
				assert.Equal(t, "body", post.Content)
				assert.Equal(t, uint(3), post.OwnerID)
			}
			posts.AssertExpectations(t)
		})
	}
}

func TestPostService_Remove_OwnershipGate(t *testing.T) {
	tests := []struct {
		name          string
		actor         Actor
		expectedError error
	}{
		{name: "owner", actor: Actor{ID: 3, Roles: []string{"user"}}},
		{name: "non-owner non-admin", actor: Actor{ID: 4, Roles: []string{"user"}}, expectedError: apperrors.ErrForbiddenPostDelete},
		{name: "admin non-owner", actor: Actor{ID: 99, Roles: []string{"admin"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := new(MockPostRepository)
			posts.On("FindByID", mock.Anything, uint(10)).Return(ownedPost(), nil)
			if tt.expectedError == nil {
				posts.On("Delete", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)
			}
			svc := NewPostService(posts, new(MockUserRepository))

			post, err := svc.Remove(context.Background(), 10, tt.actor)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				posts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, uint(10), post.ID)
			}
			posts.AssertExpectations(t)
		})
	}
}

func TestPostService_NotFound(t *testing.T) {
	ctx := context.Background()
	posts := new(MockPostRepository)
	posts.On("FindByID", mock.Anything, uint(404)).Return(nil, gorm.ErrRecordNotFound)
	svc := NewPostService(posts, new(MockUserRepository))
	admin := Actor{ID: 1, Roles: []string{"admin"}}

	_, err := svc.FindOne(ctx, 404)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)

	_, err = svc.Update(ctx, 404, PostPatch{Title: strPtr("x")}, admin)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)

	_, err = svc.Remove(ctx, 404, admin)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}

func TestPostService_Update_RejectsEmptyTitle(t *testing.T) {
	posts := new(MockPostRepository)
	svc := NewPostService(posts, new(MockUserRepository))

	_, err := svc.Update(context.Background(), 10, PostPatch{Title: strPtr("")}, Actor{ID: 3})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	posts.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestPostService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("author exists", func(t *testing.T) {
		posts := new(MockPostRepository)
		users := new(MockUserRepository)
		users.On("FindByID", mock.Anything, uint(3)).Return(&model.User{ID: 3, Name: "Ann", Email: "a@x.com"}, nil)
		posts.On("Create", mock.Anything, &model.Post{Title: "t", Content: "c", OwnerID: 3}).Return(nil)

		post, err := NewPostService(posts, users).Create(ctx, PostInput{Title: "t", Content: "c"}, 3)
		require.NoError(t, err)
		assert.Equal(t, &model.OwnerSummary{ID: 3, Name: "Ann", Email: "a@x.com"}, post.View().Owner)
		posts.AssertExpectations(t)
	})

	t.Run("author missing", func(t *testing.T) {
		posts := new(MockPostRepository)
		users := new(MockUserRepository)
		users.On("FindByID", mock.Anything, uint(3)).Return(nil, gorm.ErrRecordNotFound)

		_, err := NewPostService(posts, users).Create(ctx, PostInput{Title: "t", Content: "c"}, 3)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := NewPostService(new(MockPostRepository), new(MockUserRepository)).Create(ctx, PostInput{Content: "c"}, 3)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestActorFromClaims(t *testing.T) {
	c := &auth.Claims{Identity: auth.Identity{ID: 5, Roles: []string{"admin"}}}
	assert.Equal(t, Actor{ID: 5, Roles: []string{"admin"}}, ActorFromClaims(c))
}
