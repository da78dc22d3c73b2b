package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

const envConfigFile = "FINLINK_SERVER_CONFIG"

// dotenvFiles are loaded, if present, before the environment is read.
// Variables already set in the process environment win.
var dotenvFiles = []string{".env"}

type envBinding struct {
	name string
	dst  *string
}

// parseEnv overlays Config with environment variables. A malformed duration
// panics, like the other loaders.
func parseEnv(cfg *Config) {
	for _, f := range dotenvFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				panic(err)
			}
		}
	}

	bindings := []envBinding{
		{"TELLER_BASE_URL", &cfg.TellerBaseURL},
		{"TELLER_CERT_SECRET_NAME", &cfg.CertSecretName},
		{"TELLER_KEY_SECRET_NAME", &cfg.KeySecretName},
		{"SECRET_BACKEND", &cfg.SecretBackend},
		{"S3_ROOT_USER", &cfg.S3RootUser},
		{"S3_ROOT_PASSWORD", &cfg.S3RootPassword},
		{"S3_BUCKET", &cfg.S3Bucket},
		{"AWS_REGION", &cfg.S3Region},
		{"S3_BASE_ENDPOINT", &cfg.S3BaseEndpoint},
		{"SECRETS_DIR", &cfg.SecretsDir},
		{"LISTEN_ADDR", &cfg.ListenAddr},
		{"DATABASE_DSN", &cfg.DatabaseDSN},
		{"REDIS_URL", &cfg.RedisURL},
		{"JWT_SECRET", &cfg.JWTSecret},
		{"FINGERPRINT_KEY", &cfg.FingerprintKey},
		{"LOG_LEVEL", &cfg.LogLevel},
	}
	for _, b := range bindings {
		if v := os.Getenv(b.name); v != "" {
			*b.dst = v
		}
	}

	durations := map[string]*time.Duration{
		"UPSTREAM_TIMEOUT":  &cfg.UpstreamTimeout,
		"SESSION_TOKEN_TTL": &cfg.SessionTokenTTL,
		"IDEMPOTENCY_TTL":   &cfg.IdempotencyTTL,
	}
	for name, dst := range durations {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		*dst = d
	}
}
