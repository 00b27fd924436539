package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The service is described directly with well-known protobuf types, so no
// generated stubs are needed:
//
//	service UserService {
//	  rpc FindUser(google.protobuf.UInt64Value) returns (google.protobuf.Struct);
//	  rpc SaveUser(google.protobuf.Struct) returns (google.protobuf.Empty);
//	  rpc DeleteUser(google.protobuf.UInt64Value) returns (google.protobuf.BoolValue);
//	  rpc ListActiveUsers(google.protobuf.Empty) returns (stream google.protobuf.Struct);
//	}
const ServiceName = "codex.users.v1.UserService"

const (
	findUserMethod        = "/" + ServiceName + "/FindUser"
	saveUserMethod        = "/" + ServiceName + "/SaveUser"
	deleteUserMethod      = "/" + ServiceName + "/DeleteUser"
	listActiveUsersMethod = "/" + ServiceName + "/ListActiveUsers"
)

type UserServiceServer interface {
	FindUser(context.Context, *wrapperspb.UInt64Value) (*structpb.Struct, error)
	SaveUser(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	DeleteUser(context.Context, *wrapperspb.UInt64Value) (*wrapperspb.BoolValue, error)
	ListActiveUsers(*emptypb.Empty, grpc.ServerStream) error
}

var UserServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UserServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "FindUser", Handler: findUserHandler},
		{MethodName: "SaveUser", Handler: saveUserHandler},
		{MethodName: "DeleteUser", Handler: deleteUserHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "ListActiveUsers", Handler: listActiveUsersHandler, ServerStreams: true},
	},
}

func RegisterUserServiceServer(s grpc.ServiceRegistrar, srv UserServiceServer) {
	s.RegisterService(&UserServiceDesc, srv)
}

func findUserHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.UInt64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserServiceServer).FindUser(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: findUserMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(UserServiceServer).FindUser(ctx, req.(*wrapperspb.UInt64Value))
	}
	return interceptor(ctx, in, info, handler)
}

func saveUserHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserServiceServer).SaveUser(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: saveUserMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(UserServiceServer).SaveUser(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func deleteUserHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.UInt64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserServiceServer).DeleteUser(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: deleteUserMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(UserServiceServer).DeleteUser(ctx, req.(*wrapperspb.UInt64Value))
	}
	return interceptor(ctx, in, info, handler)
}

func listActiveUsersHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(UserServiceServer).ListActiveUsers(in, stream)
}
