package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/finlink/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-g string   gateway base URL
//	-t int      request timeout in seconds
//	-d string   path of the local database
//	-l string   log level
//	-b string   address the enrollment widget page is served on
//	-app string Teller application id
//	-env string Teller environment
//
// Only the flags above are parsed (flagx.Parse); anything else on the
// command line is left to other loaders.
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.GatewayBaseURL, "g", cfg.GatewayBaseURL, "gateway base URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.BridgeListenAddr, "b", cfg.BridgeListenAddr, "enrollment widget listen address")
	fs.StringVar(&cfg.Widget.ApplicationID, "app", cfg.Widget.ApplicationID, "Teller application id")
	fs.StringVar(&cfg.Widget.Environment, "env", cfg.Widget.Environment, "Teller environment (sandbox, development, production)")

	if err := flagx.Parse(fs, os.Args[1:]); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
