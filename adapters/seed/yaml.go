package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/gruzdev-dev/codex-users/core/domain"
	"github.com/gruzdev-dev/codex-users/core/ports"

	"gopkg.in/yaml.v3"
)

// FileYAML is the layout of a seed file:
//
//	users:
//	  - id: 1
//	    name: Alice
//	    email: alice@example.com
//	    avatar: https://example.com/avatar.png
//	    active: true
type FileYAML struct {
	Users []UserYAML `yaml:"users"`
}

type UserYAML struct {
	ID     uint64  `yaml:"id"`
	Name   string  `yaml:"name"`
	Email  string  `yaml:"email"`
	Avatar *string `yaml:"avatar,omitempty"`
	Active *bool   `yaml:"active,omitempty"`
}

func (u UserYAML) toDomain() domain.User {
	user := domain.NewUser(u.ID, u.Name, u.Email)
	if u.Avatar != nil {
		user = user.WithAvatar(*u.Avatar)
	}
	if u.Active != nil {
		user.IsActive = *u.Active
	}
	return user
}

func Parse(data []byte) ([]domain.User, error) {
	var file FileYAML
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	users := make([]domain.User, 0, len(file.Users))
	for _, u := range file.Users {
		users = append(users, u.toDomain())
	}
	return users, nil
}

func LoadFile(path string) ([]domain.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Apply saves users in file order, so a later entry wins over an earlier one
// with the same id.
func Apply(ctx context.Context, repo ports.UserRepository, users []domain.User) error {
	for i := range users {
		if err := repo.Save(ctx, &users[i]); err != nil {
			return fmt.Errorf("failed to seed user %d: %w", users[i].ID, err)
		}
	}
	return nil
}
