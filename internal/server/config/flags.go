package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":9001")
//	-d string   database DSN
//	-D string   database driver: pgx or sqlite
//	-m int      maximum open connections
//	-w int      connection acquire timeout, seconds
//	-o string   comma separated CORS origins
//	-l string   log level
//
// os.Args is first filtered with flagx.FilterArgs so that flags owned by
// other components (such as -c) do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-D", "-m", "-w", "-o", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.DatabaseDriver, "D", config.DatabaseDriver, "database driver (pgx|sqlite)")
	fs.IntVar(&config.MaxOpenConns, "m", config.MaxOpenConns, "maximum open database connections")
	acquireTimeout := fs.Int("w", int(config.AcquireTimeout.Seconds()), "connection acquire timeout (in seconds)")
	origins := fs.String("o", strings.Join(config.AllowedOrigins, ","), "allowed CORS origins, comma separated")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only explicit flags replace these, so sub-second JSON values survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "w":
			config.AcquireTimeout = time.Duration(*acquireTimeout) * time.Second
		case "o":
			config.AllowedOrigins = flagx.SplitList(*origins)
		}
	})
}
