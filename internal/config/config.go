// Package config handles configuration for the auth engine, applying
// defaults, an optional JSON overlay, and command-line flags, in that order.
package config

import "time"

// Config holds runtime settings.
//
// Fields:
//   - DatabaseDriver: storage backend, "sqlite" (default) or "postgres".
//   - DatabaseDSN: driver-specific DSN; for sqlite this is the database file.
//   - MaxLoginAttempts: failed password checks before the account locks.
//   - LockoutDuration: how long a locked account stays locked.
//   - SeedDefaults: create the two default accounts when the store is empty.
type Config struct {
	DatabaseDriver   string
	DatabaseDSN      string
	MaxLoginAttempts int
	LockoutDuration  time.Duration
	SeedDefaults     bool
}

// LoadDefaults populates Config with the standard deployment values.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "file:autopark.db"
	c.MaxLoginAttempts = 5
	c.LockoutDuration = 30 * time.Minute
	c.SeedDefaults = true
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file (-c/-config) and finally from command-line
// flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
