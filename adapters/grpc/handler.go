package grpc

import (
	"context"
	"errors"

	"github.com/gruzdev-dev/codex-users/core/domain"
	"github.com/gruzdev-dev/codex-users/core/services"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type UsersHandler struct {
	userService *services.UserService
}

var _ UserServiceServer = (*UsersHandler)(nil)

func NewUsersHandler(userService *services.UserService) *UsersHandler {
	return &UsersHandler{
		userService: userService,
	}
}

func (h *UsersHandler) FindUser(ctx context.Context, req *wrapperspb.UInt64Value) (*structpb.Struct, error) {
	user, err := h.userService.GetUser(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return userToStruct(*user), nil
}

func (h *UsersHandler) SaveUser(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	user, err := userFromStruct(req)
	if err != nil {
		return nil, toStatus(err)
	}

	if err := h.userService.SaveUser(ctx, &user); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (h *UsersHandler) DeleteUser(ctx context.Context, req *wrapperspb.UInt64Value) (*wrapperspb.BoolValue, error) {
	removed, err := h.userService.DeleteUser(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bool(removed), nil
}

func (h *UsersHandler) ListActiveUsers(_ *emptypb.Empty, stream grpc.ServerStream) error {
	ctx, cancel := context.WithCancel(stream.Context())
	defer cancel()

	active, err := h.userService.ActiveUsers(ctx)
	if err != nil {
		return toStatus(err)
	}

	for user := range active {
		if err := stream.SendMsg(userToStruct(user)); err != nil {
			// cancel lets the pipeline goroutine give up on its pending send
			return err
		}
	}
	return nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidEmail):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrAccessDenied):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, domain.ErrAvatarsUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
