package grpc

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"puser-service/internal/usecase/user"
	"puser-service/pkg/logger"
)

// UserServiceServer implements the gRPC user service
type UserServiceServer struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserServiceServer creates a new gRPC user service server
func NewUserServiceServer(uc user.Usecase, log *zap.Logger) *UserServiceServer {
	return &UserServiceServer{uc: uc, log: log}
}

// ListUsers handles gRPC ListUsers request.
// Usecase errors carry their own gRPC status (Unavailable, DataLoss).
// Ids are decimal strings: Struct numbers are float64 and lose int64 precision.
func (s *UserServiceServer) ListUsers(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	log := logger.WithContext(ctx, s.log)

	resp, err := s.uc.ListUsers(ctx)
	if err != nil {
		log.Error("gRPC ListUsers failed", zap.Error(err))
		return nil, err
	}

	users := make([]any, len(resp.Users))
	for i, u := range resp.Users {
		users[i] = map[string]any{
			"id":        strconv.FormatInt(u.ID, 10),
			"user_name": u.UserName,
		}
	}

	out, err := structpb.NewStruct(map[string]any{
		"users": users,
		"count": len(users),
	})
	if err != nil {
		log.Error("failed to encode ListUsers response", zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to encode response")
	}

	return out, nil
}
