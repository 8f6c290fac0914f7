package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"puser-service/cmd/api/di"
	"puser-service/internal/adapter/db/postgres"
	grpcadapter "puser-service/internal/adapter/grpc"
	"puser-service/internal/config"
)

func newTestServer(t *testing.T) (*Server, *di.Container) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", filepath.Join(t.TempDir(), "puser.db"))
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("LOG_LEVEL", "silent")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	c, err := di.NewContainer(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.DB.Create(&[]postgres.UserSchema{{UserName: "alice"}, {UserName: "bob"}}).Error)

	return New(cfg, log, c), c
}

func listen(t *testing.T) net.Listener {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return lis
}

func TestServer_ServeAndShutdown(t *testing.T) {
	srv, _ := newTestServer(t)
	grpcLis, ginLis := listen(t), listen(t)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(grpcLis, ginLis) }()

	// HTTP
	httpClient := &http.Client{Timeout: 5 * time.Second}
	resp, err := httpClient.Get("http://" + ginLis.Addr().String() + "/v1/users")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"count":2`)

	resp, err = httpClient.Get("http://" + ginLis.Addr().String() + "/metrics")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// gRPC
	conn, err := grpc.NewClient(grpcLis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := grpcadapter.NewUserServiceClient(conn).ListUsers(ctx)
	require.NoError(t, err)
	users, err := grpcadapter.DecodeUsers(out)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	healthClient := healthpb.NewHealthClient(conn)
	for _, service := range []string{"", grpcadapter.ServiceName} {
		hc, err := healthClient.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, hc.GetStatus())
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	require.NoError(t, srv.Shutdown(shutdownCtx))

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("servers did not stop")
	}
}

func TestServer_MetricsDisabled(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "false")
	srv, _ := newTestServer(t)
	grpcLis, ginLis := listen(t), listen(t)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(grpcLis, ginLis) }()

	resp, err := http.Get("http://" + ginLis.Addr().String() + "/metrics")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.NoError(t, srv.Shutdown(context.Background()))
	assert.NoError(t, <-errCh)
}

func TestServer_StartListenError(t *testing.T) {
	srv, _ := newTestServer(t)

	busy, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = busy.Close() })
	_, port, err := net.SplitHostPort(busy.Addr().String())
	require.NoError(t, err)
	srv.Config.App.GRPCPort = port

	err = srv.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen on gRPC address")
}

func TestServer_ShutdownMarksNotServing(t *testing.T) {
	srv, _ := newTestServer(t)

	require.NoError(t, srv.Shutdown(context.Background()))

	resp, err := srv.Health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: grpcadapter.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}

func TestRecoveryInterceptor(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	interceptor := recoveryInterceptor(zap.New(core))
	info := &grpc.UnaryServerInfo{FullMethod: grpcadapter.ListUsersMethod}

	resp, err := interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		panic("boom")
	})

	assert.Nil(t, resp)
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Equal(t, 1, logs.FilterMessage("panic recovered in gRPC handler").Len())

	resp, err = interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}
