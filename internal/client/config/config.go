// Package config handles configuration for the CLI client, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the Postforge CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the identity service.
//   - CredentialsDBPath: path of the local SQLite credentials database.
//   - RequestTimeout: per-request timeout for identity-service calls.
type Config struct {
	ServerEndpointAddr string
	CredentialsDBPath  string
	RequestTimeout     time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://localhost:8081"
	c.CredentialsDBPath = "postforge.db"
	c.RequestTimeout = 12 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
