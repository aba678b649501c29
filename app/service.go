// Package app assembles the planner process: store, metrics, change relay
// and HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kilianp07/planner/api"
	"github.com/kilianp07/planner/config"
	coremetrics "github.com/kilianp07/planner/core/metrics"
	"github.com/kilianp07/planner/core/planner"
	"github.com/kilianp07/planner/infra/logger"
	"github.com/kilianp07/planner/infra/metrics"
	"github.com/kilianp07/planner/infra/mqtt"
	"github.com/kilianp07/planner/infra/sqlstore"
	"github.com/kilianp07/planner/internal/eventbus"
)

// ErrPendingMigrations is returned when the schema is behind the binary.
var ErrPendingMigrations = errors.New("database has pending migrations, run `planner migrate`")

const shutdownTimeout = 10 * time.Second

// Service owns every long-lived component of a running planner.
type Service struct {
	cfg     *config.Config
	store   *sqlstore.Store
	sink    coremetrics.MetricsSink
	bus     *eventbus.TypedBus[planner.Change]
	planner *planner.Service
	pub     *mqtt.Publisher
	http    *fiber.App
	log     logger.Logger
}

// OpenStore connects to the configured database and refuses a schema with
// pending migrations.
func OpenStore(ctx context.Context, cfg sqlstore.Config) (*sqlstore.Store, error) {
	store, err := sqlstore.Open(ctx, cfg, logger.New("store"))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	pending, err := store.Pending(ctx)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("check migrations: %w", err)
	}
	if len(pending) > 0 {
		_ = store.Close()
		return nil, fmt.Errorf("%w: %s", ErrPendingMigrations, strings.Join(pending, ", "))
	}
	return store, nil
}

// New creates a Service from the configuration.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	store, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	svc := &Service{cfg: cfg, store: store, log: logg}

	svc.sink, err = coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}

	svc.bus = eventbus.NewTyped[planner.Change](eventbus.DefaultBuffer)
	if cfg.MQTT.Enabled {
		svc.pub, err = mqtt.NewPublisher(cfg.MQTT, logger.New("mqtt"))
		if err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
	}

	svc.planner = planner.NewService(store, logger.New("planner"), svc.sink, svc.bus)
	svc.http = api.New(api.Options{
		Service:      svc.planner,
		Store:        store,
		Server:       cfg.Server,
		Log:          logger.New("api"),
		ServeMetrics: cfg.Metrics.ListenAddr == "",
		AccessLog:    true,
	})
	return svc, nil
}

// Planner returns the planning service.
func (s *Service) Planner() *planner.Service { return s.planner }

// Run starts the listeners and blocks until the context is cancelled or the
// HTTP server fails.
func (s *Service) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var relayDone <-chan struct{}
	if s.pub != nil {
		relayDone = mqtt.NewRelay(s.bus, s.pub, logger.New("relay")).Start(ctx)
	}
	if addr := s.cfg.Metrics.ListenAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr, logger.New("metrics")); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.cfg.Server.Addr)
		errCh <- s.http.Listen(s.cfg.Server.Addr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-errCh:
		runErr = fmt.Errorf("http server: %w", err)
	}
	cancel()
	if err := s.http.ShutdownWithTimeout(shutdownTimeout); err != nil {
		s.log.Errorf("http shutdown: %v", err)
	}
	if relayDone != nil {
		<-relayDone
	}
	if dropped := s.bus.Dropped(); dropped > 0 {
		s.log.Warnf("%d change notifications dropped", dropped)
	}
	return runErr
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.bus != nil {
		s.bus.Close()
	}
	if s.pub != nil {
		s.pub.Disconnect()
	}
	if c, ok := s.sink.(io.Closer); ok {
		_ = c.Close()
	}
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
