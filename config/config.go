// Package config loads the planner configuration from a YAML or JSON file
// and PLANNER_ environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/planner/core/metrics"
	"github.com/kilianp07/planner/infra/logger"
	"github.com/kilianp07/planner/infra/mqtt"
	"github.com/kilianp07/planner/infra/sqlstore"
)

// EnvPrefix prefixes environment overrides. Nested keys are separated by a
// double underscore: PLANNER_STORE__DSN sets store.dsn.
const EnvPrefix = "PLANNER_"

// Config is the root configuration, one section per component.
type Config struct {
	Server  ServerConfig    `json:"server"`
	Store   sqlstore.Config `json:"store"`
	Logging logger.Config   `json:"logging"`
	Metrics metrics.Config  `json:"metrics"`
	MQTT    mqtt.Config     `json:"mqtt"`
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Server.SetDefaults()
	c.Store.SetDefaults()
	c.Logging.SetDefaults()
	c.Metrics.SetDefaults()
	c.MQTT.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	validators := []func() error{
		c.Server.Validate,
		c.Store.Validate,
		c.Logging.Validate,
		c.Metrics.Validate,
		c.MQTT.Validate,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

// Load reads path, if any, then applies environment overrides. An empty path
// loads the configuration from the environment and defaults only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
