package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv(envConfigFile, "")

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"listen_addr":      "www.example:9000",
		"database_dsn":     "postgres://x",
		"cert_secret_name": "json/cert",
		"secret_backend":   "s3",
		"upstream_timeout": "12s",
		"idempotency_ttl":  "2h",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.ListenAddr)
		assert.Equal(t, "postgres://x", cfg.DatabaseDSN)
		assert.Equal(t, "json/cert", cfg.CertSecretName)
		assert.Equal(t, "teller/private-key", cfg.KeySecretName, "absent keys keep defaults")
		assert.Equal(t, SecretBackendS3, cfg.SecretBackend)
		assert.Equal(t, 12*time.Second, cfg.UpstreamTimeout)
		assert.Equal(t, 2*time.Hour, cfg.IdempotencyTTL)
	})

	t.Run("loads from env var", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv(envConfigFile, pathFlag)

		cfg := &Config{}
		parseJson(cfg)
		assert.Equal(t, "www.example:9000", cfg.ListenAddr)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{ListenAddr: ":1"}
		parseJson(cfg)
		assert.Equal(t, ":1", cfg.ListenAddr)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
