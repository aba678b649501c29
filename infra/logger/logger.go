package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	corelogger "github.com/kilianp07/planner/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// Config controls output format, level and optional file rotation.
type Config struct {
	// Level is a zerolog level name such as "debug" or "info".
	Level string `json:"level"`
	// Format is "json" or "console". APP_ENV=dev forces console.
	Format string `json:"format"`
	// File also writes logs to a rotated file when set.
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
	Compress   bool   `json:"compress"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 50
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 3
	}
	if c.MaxAgeDays == 0 {
		c.MaxAgeDays = 28
	}
}

// Validate checks level and format.
func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Format)
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("logging: rotation settings must not be negative")
	}
	return nil
}

var (
	mu     sync.RWMutex
	output io.Writer = os.Stdout
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup applies cfg to every logger created afterwards. It returns a closer
// for the log file, if any.
func Setup(cfg Config) (io.Closer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, _ := zerolog.ParseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	var console io.Writer = os.Stdout
	if cfg.Format == "console" || strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		console = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	w := console
	var lj *lumberjack.Logger
	if cfg.File != "" {
		if dir := filepath.Dir(cfg.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create log dir: %w", err)
			}
		}
		lj = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		w = zerolog.MultiLevelWriter(console, lj)
	}

	mu.Lock()
	defer mu.Unlock()
	output = w
	if lj != nil {
		return lj, nil
	}
	return nopCloser{}, nil
}

// New returns a Logger for the given component.
func New(component string) Logger {
	mu.RLock()
	w := output
	mu.RUnlock()
	return NewZerologLogger(component, w)
}
