package config

import (
	"errors"
	"time"
)

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `json:"addr"`
	BodyLimitKB  int           `json:"body_limit_kb"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	CORS         CORSConfig    `json:"cors"`
}

// CORSConfig lists what cross-origin callers may do.
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins"`
	AllowMethods []string `json:"allow_methods"`
	AllowHeaders []string `json:"allow_headers"`
}

func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.BodyLimitKB == 0 {
		c.BodyLimitKB = 1024
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if len(c.CORS.AllowOrigins) == 0 {
		c.CORS.AllowOrigins = []string{"*"}
	}
	if len(c.CORS.AllowMethods) == 0 {
		c.CORS.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(c.CORS.AllowHeaders) == 0 {
		c.CORS.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	}
}

func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.BodyLimitKB < 0 || c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return errors.New("server: limits and timeouts must not be negative")
	}
	return nil
}
