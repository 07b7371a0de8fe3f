package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/userservice/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g. ":5000")
//	-d string   PostgreSQL DSN
//	-debug      debug mode; use -debug=false to switch it off
//	-t int      graceful shutdown timeout, seconds; left untouched unless passed
//	-r int      write-route rate limit per window, 0 disables
//
// os.Args is filtered with flagx.FilterArgs first so that -c/-config and
// unrelated flags do not reach this FlagSet.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-debug", "-t", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.BoolVar(&config.Debug, "debug", config.Debug, "debug mode")
	shutdownTimeout := fs.Int("t", int(config.ShutdownTimeout.Seconds()), "shutdown timeout (in seconds)")
	fs.IntVar(&config.RateLimitMax, "r", config.RateLimitMax, "rate limit for write routes, 0 to disable")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.ShutdownTimeout = time.Duration(*shutdownTimeout) * time.Second
		}
	})
}
