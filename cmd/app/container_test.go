package main

import (
	"path/filepath"
	"testing"

	storageAdapter "github.com/gruzdev-dev/codex-users/adapters/storage"
	sqliteAdapter "github.com/gruzdev-dev/codex-users/adapters/storage/sqlite"
	"github.com/gruzdev-dev/codex-users/configs"
	"github.com/gruzdev-dev/codex-users/core/ports"
	grpcServer "github.com/gruzdev-dev/codex-users/servers/grpc"
	httpServer "github.com/gruzdev-dev/codex-users/servers/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildContainer_MemoryBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", configs.BackendMemory)
	t.Setenv("S3_ENDPOINT", "")

	container, err := BuildContainer()
	require.NoError(t, err)

	err = container.Invoke(func(
		repo ports.UserRepository,
		avatars ports.AvatarProvider,
		httpSrv *httpServer.Server,
		grpcSrv *grpcServer.Server,
	) {
		assert.IsType(t, &storageAdapter.InMemoryUserRepo{}, repo)
		assert.Nil(t, avatars)
		assert.NotNil(t, httpSrv)
		assert.NotNil(t, grpcSrv)
	})
	require.NoError(t, err)
}

func TestBuildContainer_SQLiteBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", configs.BackendSQLite)
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "users.db"))

	container, err := BuildContainer()
	require.NoError(t, err)

	err = container.Invoke(func(repo ports.UserRepository) {
		require.IsType(t, &sqliteAdapter.UserRepo{}, repo)
		_ = repo.(*sqliteAdapter.UserRepo).Close()
	})
	require.NoError(t, err)
}

func TestBuildContainer_AvatarProvider(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", configs.BackendMemory)
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("S3_ACCESS_KEY", "minioadmin")
	t.Setenv("S3_SECRET_KEY", "minioadmin")
	t.Setenv("S3_BUCKET", "avatars")

	container, err := BuildContainer()
	require.NoError(t, err)

	err = container.Invoke(func(avatars ports.AvatarProvider) {
		assert.NotNil(t, avatars)
	})
	require.NoError(t, err)
}
