package config

import (
	"encoding/json"
	"os"

	"github.com/vkotelnikov/autopark/internal/flagx"
	"github.com/vkotelnikov/autopark/internal/timex"
)

// JsonConfig mirrors Config for JSON unmarshalling. Pointer fields
// distinguish "absent" from "zero" so the overlay only touches keys that
// appear in the file; the duration accepts strings like "30m".
type JsonConfig struct {
	DatabaseDriver   *string         `json:"database_driver"`
	DatabaseDSN      *string         `json:"database_dsn"`
	MaxLoginAttempts *int            `json:"max_login_attempts"`
	LockoutDuration  *timex.Duration `json:"lockout_duration"`
	SeedDefaults     *bool           `json:"seed_defaults"`
}

// parseJson overlays values from the JSON file named by -c/-config, if any.
// A missing flag means no file is loaded; an unreadable or invalid file
// panics, since running with half-applied config is worse than not starting.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.DatabaseDriver != nil {
		config.DatabaseDriver = *c.DatabaseDriver
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.MaxLoginAttempts != nil {
		config.MaxLoginAttempts = *c.MaxLoginAttempts
	}
	if c.LockoutDuration != nil {
		config.LockoutDuration = c.LockoutDuration.Duration
	}
	if c.SeedDefaults != nil {
		config.SeedDefaults = *c.SeedDefaults
	}
}
