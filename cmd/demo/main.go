// Command demo runs a fixed walk-through of the user repository: save Alice,
// read her back, then print a small even-number filter.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gruzdev-dev/codex-users/adapters/storage"
	"github.com/gruzdev-dev/codex-users/core/domain"
	"github.com/gruzdev-dev/codex-users/core/ports"
)

func main() {
	if err := run(context.Background(), storage.NewInMemoryUserRepo(), os.Stdout); err != nil {
		log.Fatalf("demo failed: %v", err)
	}
}

func run(ctx context.Context, repo ports.UserRepository, w io.Writer) error {
	user := domain.NewUser(1, "Alice", "alice@example.com").
		WithAvatar("https://example.com/avatar.png")

	if err := repo.Save(ctx, &user); err != nil {
		return err
	}

	found, err := repo.FindByID(ctx, 1)
	if err != nil {
		return err
	}
	if found != nil {
		fmt.Fprintf(w, "Found user: %s\n", describe(*found))
	}

	numbers := evenNumbers(1, 10)
	fmt.Fprintf(w, "Even numbers: %v, Sum: %d\n", numbers, sum(numbers))

	return nil
}

func describe(u domain.User) string {
	avatar := "none"
	if u.Avatar != nil {
		avatar = *u.Avatar
	}
	return fmt.Sprintf("{id:%d name:%q email:%q avatar:%s active:%t}", u.ID, u.Name, u.Email, avatar, u.IsActive)
}

// evenNumbers returns the even numbers in [from, to].
func evenNumbers(from, to int) []int {
	var out []int
	for n := from; n <= to; n++ {
		if n%2 == 0 {
			out = append(out, n)
		}
	}
	return out
}

func sum(numbers []int) int {
	total := 0
	for _, n := range numbers {
		total += n
	}
	return total
}
