package app

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) string {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := lis.Addr().(*net.TCPAddr).Port
	require.NoError(t, lis.Close())
	return strconv.Itoa(port)
}

func setTestEnv(t *testing.T) (httpPort string) {
	dir := t.TempDir()
	httpPort = freePort(t)

	t.Setenv("CONFIG_PATH", dir)
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", filepath.Join(dir, "puser.db"))
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_OUTPUT_PATH", filepath.Join(dir, "app.log"))
	t.Setenv("GRPC_PORT", freePort(t))
	t.Setenv("HTTP_PORT", httpPort)
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "5")
	return httpPort
}

func TestApp_RunAndShutdown(t *testing.T) {
	httpPort := setTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := New(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", a.Config.DB.Driver)

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	url := "http://127.0.0.1:" + httpPort + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("application did not shut down")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	setTestEnv(t)
	t.Setenv("CACHE_ENABLED", "true")

	a, err := New(context.Background())
	assert.Nil(t, a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_ENABLED requires REDIS_ENABLED")
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "")
	assert.Equal(t, "development", getEnvironment())

	t.Setenv("APP_ENV", "production")
	assert.Equal(t, "production", getEnvironment())
}
