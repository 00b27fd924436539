package main

import (
	"context"
	"fmt"

	grpcAdapter "github.com/gruzdev-dev/codex-users/adapters/grpc"
	httpAdapter "github.com/gruzdev-dev/codex-users/adapters/http"
	storageAdapter "github.com/gruzdev-dev/codex-users/adapters/storage"
	postgresAdapter "github.com/gruzdev-dev/codex-users/adapters/storage/postgres"
	s3Adapter "github.com/gruzdev-dev/codex-users/adapters/storage/s3"
	sqliteAdapter "github.com/gruzdev-dev/codex-users/adapters/storage/sqlite"
	"github.com/gruzdev-dev/codex-users/configs"
	"github.com/gruzdev-dev/codex-users/core/ports"
	"github.com/gruzdev-dev/codex-users/core/services"
	grpcServer "github.com/gruzdev-dev/codex-users/servers/grpc"
	httpServer "github.com/gruzdev-dev/codex-users/servers/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"
)

func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	if err := container.Provide(configs.NewConfig); err != nil {
		return nil, err
	}

	if err := container.Provide(newUserRepository); err != nil {
		return nil, err
	}

	if err := container.Provide(newAvatarProvider); err != nil {
		return nil, err
	}

	if err := container.Provide(newUserService); err != nil {
		return nil, err
	}

	if err := container.Provide(httpAdapter.NewHandler); err != nil {
		return nil, err
	}

	if err := container.Provide(grpcAdapter.NewUsersHandler); err != nil {
		return nil, err
	}

	if err := container.Provide(httpServer.NewServer); err != nil {
		return nil, err
	}

	if err := container.Provide(grpcServer.NewServer); err != nil {
		return nil, err
	}

	return container, nil
}

// newUserRepository picks the storage backend once, at start-up.
func newUserRepository(cfg *configs.Config) (ports.UserRepository, error) {
	switch cfg.Storage.Backend {
	case configs.BackendMemory:
		return storageAdapter.NewInMemoryUserRepo(), nil
	case configs.BackendPostgres:
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to create pool: %w", err)
		}
		return postgresAdapter.NewUserRepo(pool), nil
	case configs.BackendSQLite:
		return sqliteAdapter.New(cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// newAvatarProvider returns a nil provider when object storage is not
// configured; the service then rejects avatar uploads.
func newAvatarProvider(cfg *configs.Config) (ports.AvatarProvider, error) {
	if !cfg.AvatarsEnabled() {
		return nil, nil
	}
	provider, err := s3Adapter.NewAvatarProvider(cfg)
	if err != nil {
		return nil, err
	}
	return provider, nil
}

func newUserService(repo ports.UserRepository, avatars ports.AvatarProvider, cfg *configs.Config) *services.UserService {
	return services.NewUserService(
		repo,
		avatars,
		cfg.Avatar.MaxSize,
		cfg.Avatar.UploadTTL,
		cfg.Pipeline.Buffer,
	)
}
