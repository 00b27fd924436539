package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gruzdev-dev/codex-users/core/domain"
	"github.com/gruzdev-dev/codex-users/core/ports"

	"github.com/google/uuid"
)

type UserService struct {
	repo            ports.UserRepository
	avatars         ports.AvatarProvider
	avatarMaxSize   int64
	avatarUploadTTL time.Duration
	pipelineBuffer  int
}

// NewUserService wires the service. avatars may be nil, in which case avatar
// uploads report domain.ErrAvatarsUnavailable. A negative pipelineBuffer is
// treated as unbuffered.
func NewUserService(
	repo ports.UserRepository,
	avatars ports.AvatarProvider,
	avatarMaxSize int64,
	avatarUploadTTL time.Duration,
	pipelineBuffer int,
) *UserService {
	return &UserService{
		repo:            repo,
		avatars:         avatars,
		avatarMaxSize:   avatarMaxSize,
		avatarUploadTTL: avatarUploadTTL,
		pipelineBuffer:  max(pipelineBuffer, 0),
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint64) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapRepoError("failed to find user", err)
	}
	if user == nil {
		return nil, domain.NotFoundError(id)
	}
	return user, nil
}

func (s *UserService) SaveUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		return fmt.Errorf("%w: user is required", domain.ErrInvalidInput)
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return wrapRepoError("failed to save user", err)
	}
	return nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uint64) (bool, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, wrapRepoError("failed to delete user", err)
	}
	return removed, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, wrapRepoError("failed to list users", err)
	}
	return users, nil
}

// ActiveUsers streams the active users through the pipeline. The channel is
// closed after the last one; cancelling ctx stops the stream early.
func (s *UserService) ActiveUsers(ctx context.Context) (<-chan domain.User, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return StreamActive(ctx, users, s.pipelineBuffer), nil
}

type AvatarUploadResult struct {
	UploadURL string
	AvatarURL string
}

func (s *UserService) GenerateAvatarUpload(ctx context.Context, id uint64, contentType string) (*AvatarUploadResult, error) {
	if s.avatars == nil {
		return nil, domain.ErrAvatarsUnavailable
	}
	if contentType == "" {
		return nil, fmt.Errorf("%w: content type is required", domain.ErrInvalidInput)
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	objectPath := fmt.Sprintf("avatars/%d/%s", id, uuid.New().String())

	uploadURL, err := s.avatars.GenerateUploadURL(ctx, objectPath, contentType, s.avatarMaxSize, s.avatarUploadTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate upload URL: %v", domain.ErrInternal, err)
	}

	updated := user.WithAvatar(s.avatars.ObjectURL(objectPath))
	if err := s.repo.Save(ctx, &updated); err != nil {
		return nil, wrapRepoError("failed to save avatar", err)
	}

	return &AvatarUploadResult{
		UploadURL: uploadURL,
		AvatarURL: *updated.Avatar,
	}, nil
}

// Errors already classified as database errors keep their kind; anything else
// coming out of a repository is internal.
func wrapRepoError(msg string, err error) error {
	if errors.Is(err, domain.ErrDatabase) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrInternal, msg, err)
}
