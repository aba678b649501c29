package app

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/planner/config"
	coremetrics "github.com/kilianp07/planner/core/metrics"
	"github.com/kilianp07/planner/infra/sqlstore"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Store:   sqlstore.Config{Driver: sqlstore.DriverSQLite, DSN: filepath.Join(t.TempDir(), "planner.db")},
		Metrics: coremetrics.Config{Sinks: []coremetrics.SinkConfig{{Type: "nop"}}},
	}
	cfg.Server.Addr = freeAddr(t)
	cfg.SetDefaults()
	return cfg
}

func migrate(t *testing.T, cfg sqlstore.Config) {
	t.Helper()
	ctx := context.Background()
	store, err := sqlstore.Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer store.Close()
	_, err = store.Migrate(ctx)
	require.NoError(t, err)
}

func TestNewRefusesPendingMigrations(t *testing.T) {
	cfg := testConfig(t)
	_, err := New(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrPendingMigrations)
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	migrate(t, cfg.Store)

	svc, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer svc.Close()
	require.NotNil(t, svc.Planner())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", cfg.Server.Addr)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("Run did not return")
	}
}
