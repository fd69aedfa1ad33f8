package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/memoriascard/backend/internal/domain/identity"
	"github.com/memoriascard/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user, err := identity.NewUser("Ana@Example.com", "segredo123")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, user))

	t.Run("finds by normalized email", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "  ANA@example.com ")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.True(t, found.VerifyPassword("segredo123"))

		exists, err := repo.ExistsByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup, err := identity.NewUser("ana@example.com", "outrasenha")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("records login", func(t *testing.T) {
		user.RecordLogin()
		require.NoError(t, repo.Update(ctx, user))

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.NotNil(t, found.LastLoginAt)
	})

	t.Run("update unknown user", func(t *testing.T) {
		ghost, err := identity.NewUser("ghost@example.com", "segredo123")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Update(ctx, ghost), shared.ErrNotFound)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProfileRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProfileRepository(db)
	ctx := context.Background()

	user, err := identity.NewUser("bia@example.com", "segredo123")
	require.NoError(t, err)
	profile, err := identity.NewProfile(user, "Beatriz")
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, profile))

	require.NoError(t, profile.Update("Beatriz Souza", "https://cdn.example.com/b.png"))
	require.NoError(t, repo.Save(ctx, profile))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beatriz Souza", found.FullName)
	assert.Equal(t, "https://cdn.example.com/b.png", found.AvatarURL)
	assert.Equal(t, "bia@example.com", found.Email)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
