package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// envFile is read from the working directory when present. Variables already
// set in the process environment take precedence over it.
const envFile = ".env"

// parseEnv overlays Config with environment variables:
//
//	APP_SETTINGS    settings profile (resets all defaults)
//	DATABASE_URL    PostgreSQL DSN
//	ADDRESS         HTTP bind address
//	DEBUG           bool
//	RATE_LIMIT_MAX  int, 0 disables rate limiting
//
// Malformed values panic, like malformed JSON config or flags.
func parseEnv(config *Config) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v, ok := lookupEnv("APP_SETTINGS"); ok {
		p, err := ParseProfile(v)
		if err != nil {
			panic(err)
		}
		config.LoadProfile(p)
	}

	if v, ok := lookupEnv("DATABASE_URL"); ok {
		config.DatabaseDSN = v
	}

	if v, ok := lookupEnv("ADDRESS"); ok {
		config.EndpointAddrHTTP = v
	}

	if v, ok := lookupEnv("DEBUG"); ok {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.Debug = debug
	}

	if v, ok := lookupEnv("RATE_LIMIT_MAX"); ok {
		max, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.RateLimitMax = max
	}
}

// lookupEnv treats blank values as unset.
func lookupEnv(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}
