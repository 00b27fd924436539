// Package storagetest holds the behaviour every ports.UserRepository
// implementation must share. Backend packages call RunUserRepositoryContract
// from their own tests.
package storagetest

import (
	"context"
	"math"
	"testing"

	"github.com/gruzdev-dev/codex-users/core/domain"
	"github.com/gruzdev-dev/codex-users/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAvatar = "https://example.com/avatar.png"

// RunUserRepositoryContract runs each case against a fresh, empty repository
// returned by newRepo.
func RunUserRepositoryContract(t *testing.T, newRepo func(t *testing.T) ports.UserRepository) {
	t.Helper()

	t.Run("find missing returns nil without error", func(t *testing.T) {
		repo := newRepo(t)

		found, err := repo.FindByID(context.Background(), 404)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("save then find returns equal copy", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		alice := domain.NewUser(1, "Alice", "alice@example.com").WithAvatar(testAvatar)

		require.NoError(t, repo.Save(ctx, &alice))

		found, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, alice, *found)
	})

	t.Run("save keeps absent avatar and inactive flag", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		bob := domain.NewUser(2, "Bob", "bob@example.com")
		bob.IsActive = false

		require.NoError(t, repo.Save(ctx, &bob))

		found, err := repo.FindByID(ctx, 2)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Nil(t, found.Avatar)
		assert.False(t, found.IsActive)
	})

	t.Run("save twice equals save once", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		alice := domain.NewUser(1, "Alice", "alice@example.com")

		require.NoError(t, repo.Save(ctx, &alice))
		require.NoError(t, repo.Save(ctx, &alice))

		users, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.User{alice}, users)
	})

	t.Run("save overwrites the whole record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		first := domain.NewUser(7, "Alice", "alice@example.com").WithAvatar(testAvatar)
		second := domain.NewUser(7, "Alicia", "alicia@example.com")
		second.IsActive = false

		require.NoError(t, repo.Save(ctx, &first))
		require.NoError(t, repo.Save(ctx, &second))

		found, err := repo.FindByID(ctx, 7)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, second, *found)
		assert.Nil(t, found.Avatar, "avatar must not survive from the first record")
	})

	t.Run("delete missing returns false and keeps store", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		alice := domain.NewUser(1, "Alice", "alice@example.com")
		require.NoError(t, repo.Save(ctx, &alice))

		removed, err := repo.Delete(ctx, 2)
		require.NoError(t, err)
		assert.False(t, removed)

		users, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.User{alice}, users)
	})

	t.Run("delete present returns true and removes", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		alice := domain.NewUser(1, "Alice", "alice@example.com")
		require.NoError(t, repo.Save(ctx, &alice))

		removed, err := repo.Delete(ctx, 1)
		require.NoError(t, err)
		assert.True(t, removed)

		found, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, found)

		removed, err = repo.Delete(ctx, 1)
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("list is ordered by id", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		for _, id := range []uint64{30, 10, 20} {
			u := domain.NewUser(id, "user", "user@example.com")
			require.NoError(t, repo.Save(ctx, &u))
		}

		users, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, uint64(10), users[0].ID)
		assert.Equal(t, uint64(20), users[1].ID)
		assert.Equal(t, uint64(30), users[2].ID)
	})

	t.Run("ids across the full uint64 range", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		ids := []uint64{math.MaxUint64, 1 << 63, math.MaxInt64, 0, 7}
		for _, id := range ids {
			u := domain.NewUser(id, "user", "user@example.com")
			require.NoError(t, repo.Save(ctx, &u))
		}

		found, err := repo.FindByID(ctx, math.MaxUint64)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, uint64(math.MaxUint64), found.ID)

		users, err := repo.List(ctx)
		require.NoError(t, err)
		got := make([]uint64, 0, len(users))
		for _, u := range users {
			got = append(got, u.ID)
		}
		assert.Equal(t, []uint64{0, 7, math.MaxInt64, 1 << 63, math.MaxUint64}, got)

		removed, err := repo.Delete(ctx, 1<<63)
		require.NoError(t, err)
		assert.True(t, removed)
	})

	t.Run("list on empty store", func(t *testing.T) {
		repo := newRepo(t)

		users, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("stored copy is independent of caller", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		alice := domain.NewUser(1, "Alice", "alice@example.com").WithAvatar(testAvatar)
		require.NoError(t, repo.Save(ctx, &alice))

		alice.Name = "changed"
		*alice.Avatar = "changed"

		found, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Alice", found.Name)
		assert.Equal(t, testAvatar, *found.Avatar)

		found.Name = "changed again"
		again, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Alice", again.Name)
	})
}
