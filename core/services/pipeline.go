package services

import (
	"context"

	"github.com/gruzdev-dev/codex-users/core/domain"
)

// ProcessUsers sends the active users to out in their original order and
// drops the inactive ones. It blocks while out is full. Once ctx is done the
// consumer is considered gone and the remaining users are discarded without
// an error. out is never closed here.
func ProcessUsers(ctx context.Context, out chan<- domain.User, users []domain.User) {
	for _, user := range users {
		if !user.IsActive {
			continue
		}
		select {
		case out <- user:
		case <-ctx.Done():
			return
		}
	}
}

// StreamActive runs ProcessUsers in its own goroutine over a channel with the
// given buffer (negative means unbuffered) and closes the channel once the
// stage has returned.
func StreamActive(ctx context.Context, users []domain.User, buffer int) <-chan domain.User {
	out := make(chan domain.User, max(buffer, 0))
	go func() {
		defer close(out)
		ProcessUsers(ctx, out, users)
	}()
	return out
}
