package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/finlink/internal/flagx"
	"github.com/dmitrijs2005/finlink/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// use timex.Duration so they can be written as "30s".
type JsonConfig struct {
	GatewayBaseURL   string         `json:"gateway_base_url"`
	RequestTimeout   timex.Duration `json:"request_timeout"`
	Platform         string         `json:"platform"`
	DatabasePath     string         `json:"database_path"`
	LogLevel         string         `json:"log_level"`
	BridgeListenAddr string         `json:"bridge_listen_addr"`
	Widget           *JsonWidget    `json:"widget"`
}

type JsonWidget struct {
	ApplicationID    string   `json:"application_id"`
	Environment      string   `json:"environment"`
	Products         []string `json:"products"`
	SelectAccount    string   `json:"select_account"`
	ConnectScriptURL string   `json:"connect_script_url"`
}

// parseJson overlays Config with the non-empty values of a JSON file.
//
// The file comes from -c/-config, or FINLINK_CONFIG when no flag is given.
// Without either nothing is loaded. Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFile(envConfigFile)
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.GatewayBaseURL, jc.GatewayBaseURL)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	setString(&cfg.Platform, jc.Platform)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.BridgeListenAddr, jc.BridgeListenAddr)

	if w := jc.Widget; w != nil {
		setString(&cfg.Widget.ApplicationID, w.ApplicationID)
		setString(&cfg.Widget.Environment, w.Environment)
		setString(&cfg.Widget.SelectAccount, w.SelectAccount)
		setString(&cfg.Widget.ConnectScriptURL, w.ConnectScriptURL)
		if len(w.Products) > 0 {
			cfg.Widget.Products = w.Products
		}
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
