package config

import (
	"flag"
	"os"
	"time"

	"github.com/vkotelnikov/autopark/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-e string   database engine: "sqlite" or "postgres"
//	-d string   database DSN
//	-m int      failed attempts before lockout
//	-l int      lockout duration, minutes
//	-n          do not seed default accounts
//
// Arguments are first filtered with flagx.FilterArgs so that flags owned by
// other components (such as -c for the JSON config file) do not cause a
// parse error here.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-e", "-d", "-m", "-l", "-n"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDriver, "e", config.DatabaseDriver, "database engine (sqlite|postgres)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.IntVar(&config.MaxLoginAttempts, "m", config.MaxLoginAttempts, "failed attempts before lockout")

	lockoutMinutes := fs.Int("l", int(config.LockoutDuration.Minutes()), "lockout duration (in minutes)")
	noSeed := fs.Bool("n", !config.SeedDefaults, "do not seed default accounts")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.LockoutDuration = time.Duration(*lockoutMinutes) * time.Minute
	config.SeedDefaults = !*noSeed
}
