package grpc

import (
	"context"
	"errors"
	"io"

	"github.com/gruzdev-dev/codex-users/core/domain"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// UserServiceClient is a typed client for UserService. FindUser maps
// codes.NotFound back to (nil, nil), mirroring ports.UserRepository.
type UserServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewUserServiceClient(cc grpc.ClientConnInterface) *UserServiceClient {
	return &UserServiceClient{cc: cc}
}

func (c *UserServiceClient) FindUser(ctx context.Context, id uint64, opts ...grpc.CallOption) (*domain.User, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, findUserMethod, wrapperspb.UInt64(id), out, opts...); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	user, err := userFromStruct(out)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *UserServiceClient) SaveUser(ctx context.Context, user domain.User, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, saveUserMethod, userToStruct(user), new(emptypb.Empty), opts...)
}

func (c *UserServiceClient) DeleteUser(ctx context.Context, id uint64, opts ...grpc.CallOption) (bool, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, deleteUserMethod, wrapperspb.UInt64(id), out, opts...); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

func (c *UserServiceClient) ListActiveUsers(ctx context.Context, opts ...grpc.CallOption) ([]domain.User, error) {
	stream, err := c.cc.NewStream(ctx, &UserServiceDesc.Streams[0], listActiveUsersMethod, opts...)
	if err != nil {
		return nil, err
	}
	// io.EOF means the server already ended the stream; RecvMsg reports why
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}

	var users []domain.User
	for {
		msg := new(structpb.Struct)
		if err := stream.RecvMsg(msg); err != nil {
			if errors.Is(err, io.EOF) {
				return users, nil
			}
			return nil, err
		}
		user, err := userFromStruct(msg)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
}
