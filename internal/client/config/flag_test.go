package config

import (
	"os"
	"testing"
	"time"

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
		{
			name: "Test1 OK",
			args: []string{"cmd", "-g", "http://gw:9090", "-t", "10", "-d", "/tmp/f.db", "-app", "app_1", "-env", "production", "-unrelated", "x"},
			expected: &Config{
				GatewayBaseURL: "http://gw:9090",
				RequestTimeout: 10 * time.Second,
				DatabasePath:   "/tmp/f.db",
			},
		},
		{name: "Test2 incorrect timeout", args: []string{"cmd", "-t", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Equal(t, "app_1", config.Widget.ApplicationID)
				assert.Equal(t, "production", config.Widget.Environment)
				config.Widget.ApplicationID, config.Widget.Environment = "", ""
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
