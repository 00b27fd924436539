//go:build integration

package postgres

import (
	"context"
	"io"
	"log"
	"math"
	"testing"
	"time"

	"github.com/gruzdev-dev/codex-users/adapters/storage/storagetest"
	"github.com/gruzdev-dev/codex-users/core/domain"
	"github.com/gruzdev-dev/codex-users/core/ports"
	"github.com/gruzdev-dev/codex-users/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestUserRepo_Contract(t *testing.T) {
	pool := newPool(t, context.Background())

	storagetest.RunUserRepositoryContract(t, func(t *testing.T) ports.UserRepository {
		_, err := pool.Exec(context.Background(), "TRUNCATE users")
		require.NoError(t, err)
		return NewUserRepo(pool)
	})
}

func TestUserRepo_IDOutOfRange(t *testing.T) {
	pool := newPool(t, context.Background())
	repo := NewUserRepo(pool)

	u := domain.NewUser(math.MaxUint64, "Max", "max@example.com")
	err := repo.Save(context.Background(), &u)
	assert.ErrorIs(t, err, domain.ErrDatabase)
}

func TestUserRepo_ClosedPool(t *testing.T) {
	pool := newPool(t, context.Background())
	repo := NewUserRepo(pool)
	require.NoError(t, repo.Close())

	_, err := repo.FindByID(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrDatabase)
}

func newPool(t *testing.T, ctx context.Context) *pgxpool.Pool {
	t.Helper()

	logger := log.New(io.Discard, "", 0)

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("codex_users_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		postgres.WithSQLDriver("pgx"),
		testcontainers.WithLogger(logger),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to run postgres container: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = pgContainer.Terminate(ctx)
	})

	connectionString, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connectionString)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping db: %v", err)
	}

	migrationSQL, err := migrations.FS.ReadFile("001_init.up.sql")
	if err != nil {
		t.Fatalf("failed to read migration file: %s", err)
	}

	if _, err := pool.Exec(ctx, string(migrationSQL)); err != nil {
		t.Fatalf("failed to apply migration: %s", err)
	}

	return pool
}
