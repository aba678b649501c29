// Package api exposes the planner service over HTTP with fiber.
package api

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kilianp07/planner/config"
	"github.com/kilianp07/planner/core/logger"
	"github.com/kilianp07/planner/core/planner"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options wires the HTTP layer.
type Options struct {
	Service *planner.Service
	Store   Pinger
	Server  config.ServerConfig
	Log     logger.Logger
	// ServeMetrics mounts /metrics on the API listener.
	ServeMetrics bool
	// AccessLog enables fiber's request logger.
	AccessLog bool
}

// New builds the fiber application with every planner route.
func New(opts Options) *fiber.App {
	opts.Server.SetDefaults()
	log := logger.OrNop(opts.Log)
	// Immutable: ids taken from the route outlive the request through
	// change events.
	app := fiber.New(fiber.Config{
		AppName:               "planner",
		BodyLimit:             opts.Server.BodyLimitKB * 1024,
		ReadTimeout:           opts.Server.ReadTimeout,
		WriteTimeout:          opts.Server.WriteTimeout,
		DisableStartupMessage: true,
		Immutable:             true,
		ErrorHandler:          errorHandler(log),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(opts.Server.CORS.AllowOrigins, ","),
		AllowMethods: strings.Join(opts.Server.CORS.AllowMethods, ","),
		AllowHeaders: strings.Join(opts.Server.CORS.AllowHeaders, ","),
	}))
	if opts.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format:     "${time} ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: time.RFC3339,
		}))
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Planner API")
	})
	app.Get("/healthz", health(opts.Store))
	if opts.ServeMetrics {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	h := &handler{svc: opts.Service}
	h.register(app)
	return app
}

func health(store Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if store != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
