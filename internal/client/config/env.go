package config

import (
	"os"
	"time"
)

const (
	envConfigFile    = "FINLINK_CONFIG"
	envGatewayURL    = "FINLINK_GATEWAY_URL"
	envTimeout       = "FINLINK_REQUEST_TIMEOUT"
	envDatabasePath  = "FINLINK_DB"
	envLogLevel      = "FINLINK_LOG_LEVEL"
	envApplicationID = "TELLER_APPLICATION_ID"
	envEnvironment   = "TELLER_ENVIRONMENT"
)

// parseEnv overlays Config with environment variables that are set.
// An unparsable timeout panics, like the other loaders.
func parseEnv(cfg *Config) {
	if v := os.Getenv(envGatewayURL); v != "" {
		cfg.GatewayBaseURL = v
	}
	if v := os.Getenv(envTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv(envDatabasePath); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(envApplicationID); v != "" {
		cfg.Widget.ApplicationID = v
	}
	if v := os.Getenv(envEnvironment); v != "" {
		cfg.Widget.Environment = v
	}
}
