// Package config handles configuration for the users service: a settings
// profile chosen by APP_SETTINGS, then overlays from a .env file, the
// environment, an optional JSON file and command-line flags.
package config

import "time"

// Config holds runtime settings for the users service.
//
// Fields:
//   - Profile: the settings profile the defaults came from.
//   - EndpointAddrHTTP: bind address for the HTTP server.
//   - DatabaseDSN: PostgreSQL DSN (pgx).
//   - Debug: verbose logging and fiber's debug behaviour.
//   - Testing: set by the testing profile only; disables write throttling.
//   - ShutdownTimeout: how long in-flight requests get on SIGTERM.
//   - RateLimitMax / RateLimitWindow: per-IP limit on write routes; 0 disables it.
type Config struct {
	Profile          Profile
	EndpointAddrHTTP string
	DatabaseDSN      string
	Debug            bool
	Testing          bool
	ShutdownTimeout  time.Duration
	RateLimitMax     int
	RateLimitWindow  time.Duration
}

// LoadDefaults populates Config with the development profile.
func (c *Config) LoadDefaults() {
	c.LoadProfile(ProfileDevelopment)
}

// WriteRateLimit is the per-window request cap for write routes. The testing
// profile always returns 0 so test suites are never throttled.
func (c *Config) WriteRateLimit() int {
	if c.Testing {
		return 0
	}
	return c.RateLimitMax
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment, an optional JSON file and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
