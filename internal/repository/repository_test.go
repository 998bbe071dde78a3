package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"postauth/internal/db"
	"postauth/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

func seedRoles(t *testing.T, repo RoleRepository, names ...string) []model.Role {
	t.Helper()
	roles := make([]model.Role, 0, len(names))
	for _, n := range names {
		r, _, err := repo.EnsureByName(context.Background(), n)
		require.NoError(t, err)
		roles = append(roles, *r)
	}
	return roles
}

func TestRoleRepository_EnsureByNameIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewRoleRepository(newTestDB(t))

	first, created, err := repo.EnsureByName(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.EnsureByName(ctx, "admin")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	roles, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 1)
}

func TestRoleRepository_EnsureByNameConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewRoleRepository(newTestDB(t))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = repo.EnsureByName(ctx, "user")
		}()
	}
	wg.Wait()

	_, _, err := repo.EnsureByName(ctx, "user")
	require.NoError(t, err)

	roles, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 1)
}

func TestRoleRepository_CreateDuplicateName(t *testing.T) {
	ctx := context.Background()
	repo := NewRoleRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &model.Role{Name: "editor"}))
	err := repo.Create(ctx, &model.Role{Name: "editor"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestRoleRepository_FindByIDsSkipsMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewRoleRepository(newTestDB(t))
	roles := seedRoles(t, repo, "user", "admin")

	found, err := repo.FindByIDs(ctx, []uint{roles[0].ID, roles[1].ID, 999})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestRoleRepository_UpdateRenames(t *testing.T) {
	ctx := context.Background()
	repo := NewRoleRepository(newTestDB(t))
	role := seedRoles(t, repo, "editor")[0]

	role.Name = "writer"
	require.NoError(t, repo.Update(ctx, &role))

	got, err := repo.FindByID(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, "writer", got.Name)
}

func TestRoleRepository_DeleteCascadesMemberships(t *testing.T) {
	ctx := context.Background()
	gormDB := newTestDB(t)
	roles := NewRoleRepository(gormDB)
	users := NewUserRepository(gormDB)

	seeded := seedRoles(t, roles, "user", "editor")
	u := &model.User{Email: "a@x.com", PasswordHash: "h", Name: "Ann", Age: 30, Roles: seeded}
	require.NoError(t, users.Create(ctx, u))

	members, err := roles.MemberIDs(ctx, seeded[1].ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{u.ID}, members)

	require.NoError(t, roles.Delete(ctx, &seeded[1]))

	_, err = roles.FindByID(ctx, seeded[1].ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"user"}, got.RoleNames())

	members, err = roles.MemberIDs(ctx, seeded[1].ID)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	gormDB := newTestDB(t)
	users := NewUserRepository(gormDB)
	userRole := seedRoles(t, NewRoleRepository(gormDB), "user")

	u := &model.User{Email: "a@x.com", PasswordHash: "h", Name: "Ann", Age: 30, Roles: userRole}
	require.NoError(t, users.Create(ctx, u))
	assert.NotZero(t, u.ID)

	byEmail, err := users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, []string{"user"}, byEmail.RoleNames())

	_, err = users.FindByEmail(ctx, "A@x.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = users.FindByID(ctx, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = users.Create(ctx, &model.User{Email: "a@x.com", PasswordHash: "h", Name: "Dup"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserRepository_ReplaceRoles(t *testing.T) {
	ctx := context.Background()
	gormDB := newTestDB(t)
	users := NewUserRepository(gormDB)
	roles := seedRoles(t, NewRoleRepository(gormDB), "user", "admin", "editor")

	u := &model.User{Email: "a@x.com", PasswordHash: "h", Name: "Ann", Age: 30, Roles: []model.Role{roles[2]}}
	require.NoError(t, users.Create(ctx, u))

	require.NoError(t, users.ReplaceRoles(ctx, u, []model.Role{roles[0], roles[1]}))

	got, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"user", "admin"}, got.RoleNames())
}

func TestUserRepository_AddRoleKeepsExisting(t *testing.T) {
	ctx := context.Background()
	gormDB := newTestDB(t)
	users := NewUserRepository(gormDB)
	roles := seedRoles(t, NewRoleRepository(gormDB), "user", "admin")

	u := &model.User{Email: "a@x.com", PasswordHash: "h", Name: "Ann", Roles: []model.Role{roles[0]}}
	require.NoError(t, users.Create(ctx, u))
	require.NoError(t, users.AddRole(ctx, u, &roles[1]))

	got, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"user", "admin"}, got.RoleNames())
}

func TestPostRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	gormDB := newTestDB(t)
	users := NewUserRepository(gormDB)
	posts := NewPostRepository(gormDB)

	owner := &model.User{Email: "a@x.com", PasswordHash: "h", Name: "Ann"}
	require.NoError(t, users.Create(ctx, owner))

	p := &model.Post{Title: "t", Content: "c", OwnerID: owner.ID}
	require.NoError(t, posts.Create(ctx, p))

	got, err := posts.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Owner)
	assert.Equal(t, "Ann", got.Owner.Name)

	got.Title = "t2"
	got.OwnerID = 12345
	require.NoError(t, posts.Update(ctx, got))

	got, err = posts.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "t2", got.Title)
	assert.Equal(t, owner.ID, got.OwnerID)

	all, err := posts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, posts.Delete(ctx, got))
	_, err = posts.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
