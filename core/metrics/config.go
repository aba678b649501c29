package metrics

import "fmt"

// SinkConfig contains the type name and raw settings of one sink.
type SinkConfig struct {
	Type string         `json:"type"`
	Conf map[string]any `json:"conf"`
}

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []SinkConfig `json:"sinks"`
	// ListenAddr serves /metrics on a dedicated listener when set. Otherwise
	// the API server exposes it.
	ListenAddr string `json:"listen_addr"`
}

// SetDefaults installs a Prometheus sink when none is configured.
func (c *Config) SetDefaults() {
	if len(c.Sinks) == 0 {
		c.Sinks = []SinkConfig{{Type: "prometheus"}}
	}
}

// Validate checks that every sink names a type.
func (c Config) Validate() error {
	for i, s := range c.Sinks {
		if s.Type == "" {
			return fmt.Errorf("metrics.sinks[%d]: type is required", i)
		}
	}
	return nil
}
