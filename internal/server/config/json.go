package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/finlink/internal/flagx"
	"github.com/dmitrijs2005/finlink/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. Durations use timex.Duration so they may be written as
// strings such as "30s" or as integer nanoseconds.
type JsonConfig struct {
	TellerBaseURL   string         `json:"teller_base_url"`
	UpstreamTimeout timex.Duration `json:"upstream_timeout"`
	CertSecretName  string         `json:"cert_secret_name"`
	KeySecretName   string         `json:"key_secret_name"`
	SecretBackend   string         `json:"secret_backend"`
	S3RootUser      string         `json:"s3_root_user"`
	S3RootPassword  string         `json:"s3_root_password"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
	SecretsDir      string         `json:"secrets_dir"`
	ListenAddr      string         `json:"listen_addr"`
	DatabaseDSN     string         `json:"database_dsn"`
	RedisURL        string         `json:"redis_url"`
	JWTSecret       string         `json:"jwt_secret"`
	SessionTokenTTL timex.Duration `json:"session_token_ttl"`
	IdempotencyTTL  timex.Duration `json:"idempotency_ttl"`
	FingerprintKey  string         `json:"fingerprint_key"`
	LogLevel        string         `json:"log_level"`
}

// parseJson loads configuration values from a JSON file into config.
//
// The path comes from -c/-config, or FINLINK_SERVER_CONFIG when no flag is
// given. Keys missing from the file keep their current value. An unreadable
// file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile(envConfigFile)
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

	set(&config.TellerBaseURL, c.TellerBaseURL)
	set(&config.CertSecretName, c.CertSecretName)
	set(&config.KeySecretName, c.KeySecretName)
	set(&config.SecretBackend, c.SecretBackend)
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	set(&config.SecretsDir, c.SecretsDir)
	set(&config.ListenAddr, c.ListenAddr)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.RedisURL, c.RedisURL)
	set(&config.JWTSecret, c.JWTSecret)
	set(&config.FingerprintKey, c.FingerprintKey)
	set(&config.LogLevel, c.LogLevel)

	if c.UpstreamTimeout.Duration > 0 {
		config.UpstreamTimeout = c.UpstreamTimeout.Duration
	}
	if c.SessionTokenTTL.Duration > 0 {
		config.SessionTokenTTL = c.SessionTokenTTL.Duration
	}
	if c.IdempotencyTTL.Duration > 0 {
		config.IdempotencyTTL = c.IdempotencyTTL.Duration
	}
}

func set(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
