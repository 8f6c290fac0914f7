package infrastructure

import (
	"context"
	"net"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"puser-service/internal/adapter/db/postgres"
	"puser-service/internal/config"
)

func sqliteConfig(t *testing.T, migrate bool) *config.Config {
	return &config.Config{
		DB: config.DatabaseConfig{
			Driver:       "sqlite",
			SQLitePath:   filepath.Join(t.TempDir(), "puser.db"),
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			AutoMigrate:  migrate,
		},
		Logger: config.LoggerConfig{Level: "silent"},
	}
}

func TestNewDatabase_SQLiteWithMigration(t *testing.T) {
	cfg := sqliteConfig(t, true)

	db, err := NewDatabase(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDatabase(db) })

	assert.True(t, db.Migrator().HasTable(&postgres.UserSchema{}))
	require.NoError(t, db.Create(&postgres.UserSchema{UserName: "alice"}).Error)

	users, err := postgres.NewUserRepoPG(postgres.NewGormQuerier(db)).List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].UserName)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 4, sqlDB.Stats().MaxOpenConnections)
}

func TestNewDatabase_WithoutMigration(t *testing.T) {
	db, err := NewDatabase(sqliteConfig(t, false), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDatabase(db) })

	assert.False(t, db.Migrator().HasTable("p_user"))
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	cfg := sqliteConfig(t, false)
	cfg.DB.Driver = "oracle"

	db, err := NewDatabase(cfg, zaptest.NewLogger(t))
	assert.Nil(t, db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestCloseDatabase_Nil(t *testing.T) {
	assert.NoError(t, CloseDatabase(nil))
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, _ := splitAddr(mr.Addr())

	cfg := &config.Config{Redis: config.RedisConfig{Enabled: true, Host: host, Port: port}}
	rdb, err := NewRedisClient(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, rdb)
	t.Cleanup(func() { _ = rdb.Close() })
}

func TestNewRedisClient_Disabled(t *testing.T) {
	rdb, err := NewRedisClient(context.Background(), &config.Config{}, zaptest.NewLogger(t))
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, _ := splitAddr(mr.Addr())
	mr.Close()

	cfg := &config.Config{Redis: config.RedisConfig{Enabled: true, Host: host, Port: port}}
	rdb, err := NewRedisClient(context.Background(), cfg, zaptest.NewLogger(t))
	assert.Nil(t, rdb)
	assert.Error(t, err)
}

func splitAddr(addr string) (string, string, error) {
	return net.SplitHostPort(addr)
}
