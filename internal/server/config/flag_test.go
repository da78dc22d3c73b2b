package config

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-r", "redis://r", "-s", "secret", "-k", "s3",
			"-cert", "c", "-key", "k", "-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint", "-l", "debug",
		}, expectPanic: false,
			expected: &Config{
				ListenAddr:     "127.0.0.1:9090",
				DatabaseDSN:    "db",
				RedisURL:       "redis://r",
				JWTSecret:      "secret",
				SecretBackend:  "s3",
				CertSecretName: "c",
				KeySecretName:  "k",
				S3RootUser:     "user",
				S3RootPassword: "password",
				S3Bucket:       "bucket",
				S3Region:       "us-west-1",
				S3BaseEndpoint: "http://endpoint",
				LogLevel:       "debug",
			}},
		{name: "Test2 missing value", args: []string{"cmd", "-a"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
