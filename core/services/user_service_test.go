package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gruzdev-dev/codex-users/core/domain"
	"github.com/gruzdev-dev/codex-users/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testUserID      = uint64(1)
	testName        = "Alice"
	testEmail       = "alice@example.com"
	testAvatar      = "https://example.com/avatar.png"
	testContentType = "image/png"
	testMaxSize     = int64(5 * 1024 * 1024) // 5MB
	testUploadTTL   = 5 * time.Minute
	testUploadURL   = "https://s3.example.com/avatars/1/x?signature=upload"
	testObjectURL   = "https://s3.example.com/avatars/1/x"
)

func newTestService(t *testing.T) (*UserService, *ports.MockUserRepository, *ports.MockAvatarProvider) {
	ctrl := gomock.NewController(t)
	repo := ports.NewMockUserRepository(ctrl)
	avatars := ports.NewMockAvatarProvider(ctrl)
	return NewUserService(repo, avatars, testMaxSize, testUploadTTL, 4), repo, avatars
}

func TestUserService_GetUser(t *testing.T) {
	alice := domain.NewUser(testUserID, testName, testEmail).WithAvatar(testAvatar)

	tests := []struct {
		name           string
		setupMocks     func(*ports.MockUserRepository)
		validateResult func(*testing.T, *domain.User, error)
	}{
		{
			name: "found",
			setupMocks: func(repo *ports.MockUserRepository) {
				found := alice.Clone()
				repo.EXPECT().FindByID(gomock.Any(), testUserID).Return(&found, nil)
			},
			validateResult: func(t *testing.T, user *domain.User, err error) {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, alice, *user)
			},
		},
		{
			name: "absent becomes not found",
			setupMocks: func(repo *ports.MockUserRepository) {
				repo.EXPECT().FindByID(gomock.Any(), testUserID).Return(nil, nil)
			},
			validateResult: func(t *testing.T, user *domain.User, err error) {
				assert.Nil(t, user)
				assert.ErrorIs(t, err, domain.ErrUserNotFound)
				assert.EqualError(t, err, "user not found: 1")
			},
		},
		{
			name: "database error keeps its kind",
			setupMocks: func(repo *ports.MockUserRepository) {
				repo.EXPECT().FindByID(gomock.Any(), testUserID).
					Return(nil, domain.DatabaseError(errors.New("connection reset")))
			},
			validateResult: func(t *testing.T, user *domain.User, err error) {
				assert.Nil(t, user)
				assert.ErrorIs(t, err, domain.ErrDatabase)
				assert.NotErrorIs(t, err, domain.ErrInternal)
				assert.Contains(t, err.Error(), "connection reset")
			},
		},
		{
			name: "unclassified error is internal",
			setupMocks: func(repo *ports.MockUserRepository) {
				repo.EXPECT().FindByID(gomock.Any(), testUserID).Return(nil, errors.New("boom"))
			},
			validateResult: func(t *testing.T, user *domain.User, err error) {
				assert.Nil(t, user)
				assert.ErrorIs(t, err, domain.ErrInternal)
				assert.Contains(t, err.Error(), "failed to find user")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, _ := newTestService(t)
			tt.setupMocks(repo)

			user, err := service.GetUser(context.Background(), testUserID)
			tt.validateResult(t, user, err)
		})
	}
}

func TestUserService_SaveUser(t *testing.T) {
	t.Run("passes user through without validation", func(t *testing.T) {
		service, repo, _ := newTestService(t)
		user := domain.NewUser(testUserID, testName, "definitely not an email")

		repo.EXPECT().Save(gomock.Any(), &user).Return(nil)

		require.NoError(t, service.SaveUser(context.Background(), &user))
	})

	t.Run("nil user", func(t *testing.T) {
		service, _, _ := newTestService(t)

		err := service.SaveUser(context.Background(), nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("repository error", func(t *testing.T) {
		service, repo, _ := newTestService(t)
		user := domain.NewUser(testUserID, testName, testEmail)

		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(domain.DatabaseError(errors.New("disk full")))

		err := service.SaveUser(context.Background(), &user)
		assert.ErrorIs(t, err, domain.ErrDatabase)
		assert.Contains(t, err.Error(), "failed to save user")
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	tests := []struct {
		name        string
		removed     bool
		repoErr     error
		wantRemoved bool
		wantErr     error
	}{
		{name: "removed", removed: true, wantRemoved: true},
		{name: "absent", removed: false, wantRemoved: false},
		{name: "error", repoErr: domain.DatabaseError(errors.New("locked")), wantErr: domain.ErrDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, _ := newTestService(t)
			repo.EXPECT().Delete(gomock.Any(), testUserID).Return(tt.removed, tt.repoErr)

			removed, err := service.DeleteUser(context.Background(), testUserID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemoved, removed)
		})
	}
}

func TestUserService_ActiveUsers(t *testing.T) {
	t.Run("streams active users", func(t *testing.T) {
		service, repo, _ := newTestService(t)
		repo.EXPECT().List(gomock.Any()).Return(mixedUsers(), nil)

		ch, err := service.ActiveUsers(context.Background())
		require.NoError(t, err)

		var names []string
		for u := range ch {
			names = append(names, u.Name)
		}
		assert.Equal(t, []string{"Alice", "Carol", "Eve"}, names)
	})

	t.Run("negative buffer is unbuffered", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := ports.NewMockUserRepository(ctrl)
		repo.EXPECT().List(gomock.Any()).Return(mixedUsers(), nil)
		service := NewUserService(repo, nil, testMaxSize, testUploadTTL, -3)

		ch, err := service.ActiveUsers(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, cap(ch))

		var names []string
		for u := range ch {
			names = append(names, u.Name)
		}
		assert.Equal(t, []string{"Alice", "Carol", "Eve"}, names)
	})

	t.Run("list error", func(t *testing.T) {
		service, repo, _ := newTestService(t)
		repo.EXPECT().List(gomock.Any()).Return(nil, domain.DatabaseError(errors.New("gone")))

		ch, err := service.ActiveUsers(context.Background())
		assert.Nil(t, ch)
		assert.ErrorIs(t, err, domain.ErrDatabase)
	})
}

func TestUserService_GenerateAvatarUpload(t *testing.T) {
	alice := domain.NewUser(testUserID, testName, testEmail)

	tests := []struct {
		name           string
		contentType    string
		setupMocks     func(*ports.MockUserRepository, *ports.MockAvatarProvider)
		validateResult func(*testing.T, *AvatarUploadResult, error)
	}{
		{
			name:        "success path",
			contentType: testContentType,
			setupMocks: func(repo *ports.MockUserRepository, avatars *ports.MockAvatarProvider) {
				found := alice.Clone()
				repo.EXPECT().FindByID(gomock.Any(), testUserID).Return(&found, nil)

				var objectPath string
				avatars.EXPECT().
					GenerateUploadURL(gomock.Any(), gomock.Any(), testContentType, testMaxSize, testUploadTTL).
					DoAndReturn(func(ctx context.Context, path, contentType string, maxSize int64, ttl time.Duration) (string, error) {
						require.Contains(t, path, "avatars/1/")
						objectPath = path
						return testUploadURL, nil
					})
				avatars.EXPECT().
					ObjectURL(gomock.Any()).
					DoAndReturn(func(path string) string {
						require.Equal(t, objectPath, path)
						return testObjectURL
					})
				repo.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, user *domain.User) error {
						require.Equal(t, testUserID, user.ID)
						require.Equal(t, testName, user.Name)
						require.True(t, user.IsActive)
						require.NotNil(t, user.Avatar)
						require.Equal(t, testObjectURL, *user.Avatar)
						return nil
					})
			},
			validateResult: func(t *testing.T, result *AvatarUploadResult, err error) {
				require.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, testUploadURL, result.UploadURL)
				assert.Equal(t, testObjectURL, result.AvatarURL)
			},
		},
		{
			name:        "empty content type",
			contentType: "",
			setupMocks:  func(*ports.MockUserRepository, *ports.MockAvatarProvider) {},
			validateResult: func(t *testing.T, result *AvatarUploadResult, err error) {
				assert.Nil(t, result)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				assert.Contains(t, err.Error(), "content type is required")
			},
		},
		{
			name:        "unknown user",
			contentType: testContentType,
			setupMocks: func(repo *ports.MockUserRepository, avatars *ports.MockAvatarProvider) {
				repo.EXPECT().FindByID(gomock.Any(), testUserID).Return(nil, nil)
			},
			validateResult: func(t *testing.T, result *AvatarUploadResult, err error) {
				assert.Nil(t, result)
				assert.ErrorIs(t, err, domain.ErrUserNotFound)
			},
		},
		{
			name:        "provider error",
			contentType: testContentType,
			setupMocks: func(repo *ports.MockUserRepository, avatars *ports.MockAvatarProvider) {
				found := alice.Clone()
				repo.EXPECT().FindByID(gomock.Any(), testUserID).Return(&found, nil)
				avatars.EXPECT().
					GenerateUploadURL(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("s3 error"))
			},
			validateResult: func(t *testing.T, result *AvatarUploadResult, err error) {
				assert.Nil(t, result)
				assert.ErrorIs(t, err, domain.ErrInternal)
				assert.Contains(t, err.Error(), "failed to generate upload URL")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, avatars := newTestService(t)
			tt.setupMocks(repo, avatars)

			result, err := service.GenerateAvatarUpload(context.Background(), testUserID, tt.contentType)
			tt.validateResult(t, result, err)
		})
	}
}

func TestUserService_GenerateAvatarUploadWithoutStorage(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ports.NewMockUserRepository(ctrl)
	service := NewUserService(repo, nil, testMaxSize, testUploadTTL, 0)

	result, err := service.GenerateAvatarUpload(context.Background(), testUserID, testContentType)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrAvatarsUnavailable)
}
