package grpc

import (
	"context"
	"fmt"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "puser.v1.UserService"
	// ListUsersMethod is the full method name of ListUsers.
	ListUsersMethod = "/" + ServiceName + "/ListUsers"
)

// UserServiceAPI is the server API for puser.v1.UserService.
//
// The messages are well-known protobuf types so that no generated code is
// needed: ListUsers takes google.protobuf.Empty and returns a
// google.protobuf.Struct of the form {"users": [{"id": "1", "user_name": "alice"}], "count": 1}.
// Ids are int64 rendered as decimal strings, as in the proto3 JSON mapping.
type UserServiceAPI interface {
	ListUsers(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
}

// ServiceDesc describes puser.v1.UserService for grpc.Server registration.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UserServiceAPI)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListUsers",
			Handler:    listUsersHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "puser/v1/user_service.proto",
}

// RegisterUserServiceServer registers srv on s.
func RegisterUserServiceServer(s grpc.ServiceRegistrar, srv UserServiceAPI) {
	s.RegisterService(&ServiceDesc, srv)
}

func listUsersHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserServiceAPI).ListUsers(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ListUsersMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(UserServiceAPI).ListUsers(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// UserServiceClient is a client for puser.v1.UserService.
type UserServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewUserServiceClient creates a new UserServiceClient.
func NewUserServiceClient(cc grpc.ClientConnInterface) *UserServiceClient {
	return &UserServiceClient{cc: cc}
}

// ListUsers calls puser.v1.UserService/ListUsers.
func (c *UserServiceClient) ListUsers(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ListUsersMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// UserRecord is the decoded form of one entry of the "users" list.
type UserRecord struct {
	ID       int64
	UserName string
}

// DecodeUsers extracts the user records from a ListUsers response.
func DecodeUsers(s *structpb.Struct) ([]UserRecord, error) {
	list := s.GetFields()["users"].GetListValue()
	if list == nil {
		return nil, fmt.Errorf("response has no users list")
	}

	records := make([]UserRecord, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		fields := v.GetStructValue().GetFields()
		idValue, ok := fields["id"].GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("user %d has no string id", i)
		}
		id, err := strconv.ParseInt(idValue.StringValue, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("user %d: invalid id %q: %w", i, idValue.StringValue, err)
		}
		records = append(records, UserRecord{
			ID:       id,
			UserName: fields["user_name"].GetStringValue(),
		})
	}
	return records, nil
}
