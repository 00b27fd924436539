package ports

import (
	"context"
	"time"

	"github.com/gruzdev-dev/codex-users/core/domain"
)

//go:generate mockgen -source=user.go -destination=user_mocks.go -package=ports UserRepository,AvatarProvider

// UserRepository stores users by ID. FindByID reports absence as (nil, nil)
// and Delete reports it as false; neither is an error.
type UserRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uint64) (bool, error)
	List(ctx context.Context) ([]domain.User, error)
}

type AvatarProvider interface {
	GenerateUploadURL(ctx context.Context, objectPath string, contentType string, maxSize int64, ttl time.Duration) (string, error)
	ObjectURL(objectPath string) string
}
