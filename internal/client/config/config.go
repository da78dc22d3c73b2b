package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/dmitrijs2005/finlink/internal/client/bridge"
)

// Config holds runtime settings for the finlink client.
//
// Fields:
//   - GatewayBaseURL: base URL of the backend gateway.
//   - RequestTimeout: bound on every gateway request.
//   - Platform: value of the X-Platform header.
//   - DatabasePath: SQLite file holding the token store.
//   - BridgeListenAddr: host:port the enrollment widget page is served on.
//   - Widget: settings handed to Teller Connect.
type Config struct {
	GatewayBaseURL   string
	RequestTimeout   time.Duration
	Platform         string
	DatabasePath     string
	LogLevel         string
	BridgeListenAddr string
	Widget           bridge.Config
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.GatewayBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 30 * time.Second
	c.Platform = runtime.GOOS
	c.DatabasePath = defaultDatabasePath()
	c.LogLevel = "info"
	c.BridgeListenAddr = "127.0.0.1:8765"
	c.Widget = bridge.DefaultConfig()
}

func defaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join("state", "finlink.db")
	}
	return filepath.Join(dir, "finlink", "finlink.db")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
