package services

import (
	"context"
	"testing"
	"time"

	"github.com/gruzdev-dev/codex-users/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mixedUsers() []domain.User {
	inactive := func(u domain.User) domain.User {
		u.IsActive = false
		return u
	}
	return []domain.User{
		domain.NewUser(1, "Alice", "alice@example.com"),
		inactive(domain.NewUser(2, "Bob", "bob@example.com")),
		domain.NewUser(3, "Carol", "carol@example.com").WithAvatar("c.png"),
		inactive(domain.NewUser(4, "Dave", "dave@example.com")),
		domain.NewUser(5, "Eve", "eve@example.com"),
	}
}

func TestProcessUsers_ForwardsActiveInOrder(t *testing.T) {
	users := mixedUsers()
	out := make(chan domain.User, len(users))

	ProcessUsers(context.Background(), out, users)

	require.Len(t, out, 3)
	assert.Equal(t, users[0], <-out)
	assert.Equal(t, users[2], <-out)
	assert.Equal(t, users[4], <-out)
}

func TestProcessUsers_DoesNotCloseChannel(t *testing.T) {
	out := make(chan domain.User, 1)

	ProcessUsers(context.Background(), out, nil)

	select {
	case _, ok := <-out:
		t.Fatalf("unexpected receive, open=%v", ok)
	default:
	}
	out <- domain.NewUser(9, "still", "open@example.com")
}

func TestProcessUsers_AllInactive(t *testing.T) {
	users := mixedUsers()
	for i := range users {
		users[i].IsActive = false
	}
	out := make(chan domain.User, len(users))

	ProcessUsers(context.Background(), out, users)

	assert.Empty(t, out)
}

func TestProcessUsers_WaitsForSlowConsumer(t *testing.T) {
	users := mixedUsers()
	out := make(chan domain.User)
	done := make(chan struct{})

	go func() {
		ProcessUsers(context.Background(), out, users)
		close(done)
	}()

	var got []uint64
	for i := 0; i < 3; i++ {
		got = append(got, (<-out).ID)
	}
	<-done
	assert.Equal(t, []uint64{1, 3, 5}, got)
}

func TestProcessUsers_ConsumerGone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan domain.User, 1)
	done := make(chan struct{})

	go func() {
		ProcessUsers(ctx, out, mixedUsers())
		close(done)
	}()

	// first active user fills the buffer, the second send blocks
	require.Eventually(t, func() bool { return len(out) == 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ProcessUsers did not return after the consumer went away")
	}
	assert.Equal(t, uint64(1), (<-out).ID)
}

func TestStreamActive(t *testing.T) {
	var got []uint64
	for u := range StreamActive(context.Background(), mixedUsers(), 0) {
		got = append(got, u.ID)
	}
	assert.Equal(t, []uint64{1, 3, 5}, got)
}

func TestStreamActive_NegativeBuffer(t *testing.T) {
	out := StreamActive(context.Background(), mixedUsers(), -1)
	assert.Equal(t, 0, cap(out))

	var got []uint64
	for u := range out {
		got = append(got, u.ID)
	}
	assert.Equal(t, []uint64{1, 3, 5}, got)
}
