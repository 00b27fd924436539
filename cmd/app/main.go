package main

import (
	"context"
	"io"
	"log"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/gruzdev-dev/codex-users/adapters/seed"
	"github.com/gruzdev-dev/codex-users/configs"
	"github.com/gruzdev-dev/codex-users/core/ports"
	grpcServer "github.com/gruzdev-dev/codex-users/servers/grpc"
	httpServer "github.com/gruzdev-dev/codex-users/servers/http"
)

func main() {
	container, err := BuildContainer()
	if err != nil {
		log.Fatalf("Fatal error building container: %v", err)
	}

	err = container.Invoke(func(
		cfg *configs.Config,
		repo ports.UserRepository,
		httpSrv *httpServer.Server,
		grpcSrv *grpcServer.Server,
	) error {
		if closer, ok := repo.(io.Closer); ok {
			defer closer.Close()
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Seed.File != "" {
			users, err := seed.LoadFile(cfg.Seed.File)
			if err != nil {
				return err
			}
			if err := seed.Apply(ctx, repo, users); err != nil {
				return err
			}
			log.Printf("Seeded %d users from %s", len(users), cfg.Seed.File)
		}

		log.Printf("Using %s storage backend", cfg.Storage.Backend)

		g, ctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			return httpSrv.Start(ctx)
		})

		g.Go(func() error {
			return grpcSrv.Start(ctx)
		})

		return g.Wait()
	})

	if err != nil {
		log.Fatalf("Application stopped with error: %v", err)
	}
}
