package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-auth/internal/domain"
	"nexus-auth/internal/repository"
	"nexus-auth/internal/repository/sqlite"
)

func newRepos(t *testing.T) (*sqlite.UserRepository, *sqlite.EventRepository) {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "nexus.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := sqlite.NewUserRepository(db)
	events := sqlite.NewEventRepository(db)
	require.NoError(t, users.Init(context.Background()))
	require.NoError(t, events.Init(context.Background()))
	return users, events
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	users, _ := newRepos(t)
	ctx := context.Background()

	user := &domain.User{Name: "Ana", Email: "ana@x.com", PasswordHash: "h", Plan: domain.PlanStarter}
	id, err := users.Create(ctx, user)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.False(t, user.CreatedAt.IsZero())

	byEmail, err := users.GetByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)
	assert.Equal(t, domain.PlanStarter, byEmail.Plan)

	byID, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", byID.Email)

	_, err = users.GetByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	users, _ := newRepos(t)
	ctx := context.Background()

	_, err := users.Create(ctx, &domain.User{Name: "A", Email: "dup@x.com", PasswordHash: "h", Plan: domain.PlanStarter})
	require.NoError(t, err)

	_, err = users.Create(ctx, &domain.User{Name: "B", Email: "dup@x.com", PasswordHash: "h", Plan: domain.PlanStarter})
	assert.ErrorIs(t, err, repository.ErrEmailTaken)
}

func TestUserRepository_UpdateName(t *testing.T) {
	users, _ := newRepos(t)
	ctx := context.Background()

	user := &domain.User{Name: "Before", Email: "u@x.com", PasswordHash: "h", Plan: domain.PlanStarter}
	id, err := users.Create(ctx, user)
	require.NoError(t, err)

	require.NoError(t, users.UpdateName(ctx, id, "After"))

	got, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
	assert.Equal(t, user.Email, got.Email)

	assert.ErrorIs(t, users.UpdateName(ctx, id+100, "X"), repository.ErrNotFound)
}

func TestEventRepository_Count(t *testing.T) {
	_, events := newRepos(t)
	ctx := context.Background()

	require.NoError(t, events.Append(ctx, &domain.Event{UserID: 1, Action: domain.ActionRegistered}))
	require.NoError(t, events.Append(ctx, &domain.Event{UserID: 1, Action: domain.ActionLoggedIn}))
	require.NoError(t, events.Append(ctx, &domain.Event{UserID: 2, Action: domain.ActionLoggedIn}))

	n, err := events.CountByUserAction(ctx, 1, domain.ActionLoggedIn)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = events.CountByUserAction(ctx, 9, domain.ActionLoggedIn)
	require.NoError(t, err)
	assert.Zero(t, n)
}
