package grpc

import (
	"context"
	"fmt"
	"log"
	"net"

	grpcAdapter "github.com/gruzdev-dev/codex-users/adapters/grpc"
	"github.com/gruzdev-dev/codex-users/configs"

	"google.golang.org/grpc"
)

type Server struct {
	cfg        *configs.Config
	grpcServer *grpc.Server
}

func NewServer(cfg *configs.Config, handler *grpcAdapter.UsersHandler) *Server {
	opts := []grpc.ServerOption{
		grpc.UnaryInterceptor(grpcAdapter.AuthInterceptor(cfg.Auth.InternalSecret)),
		grpc.StreamInterceptor(grpcAdapter.StreamAuthInterceptor(cfg.Auth.InternalSecret)),
	}

	s := grpc.NewServer(opts...)
	grpcAdapter.RegisterUserServiceServer(s, handler)

	return &Server{
		cfg:        cfg,
		grpcServer: s,
	}
}

func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%s", s.cfg.GRPC.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	log.Printf("gRPC server is running on %s", addr)
	errCh := make(chan error, 1)
	go func() {
		if err := s.grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		return fmt.Errorf("gRPC server error: %w", err)
	}
}

func (s *Server) Stop() {
	log.Println("Stopping gRPC server...")
	s.grpcServer.GracefulStop()
}
