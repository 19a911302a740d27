package main

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetServeConfigFromFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *ServeConfig
	}{
		{
			name:     "defaults",
			args:     []string{},
			expected: &ServeConfig{Host: "localhost", Port: 8080, History: true},
		},
		{
			name:     "host and port",
			args:     []string{"--host", "0.0.0.0", "--port", "3000"},
			expected: &ServeConfig{Host: "0.0.0.0", Port: 3000, History: true},
		},
		{
			name:     "addr overrides host and port",
			args:     []string{"--host", "localhost", "--addr", "127.0.0.1:9090"},
			expected: &ServeConfig{Host: "127.0.0.1", Port: 9090, History: true},
		},
		{
			name:     "addr with empty host keeps default",
			args:     []string{"--addr", ":9090"},
			expected: &ServeConfig{Host: "localhost", Port: 9090, History: true},
		},
		{
			name:     "no history",
			args:     []string{"--no-history"},
			expected: &ServeConfig{Host: "localhost", Port: 8080, History: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := serveCmd
			require.NoError(t, cmd.Flags().Parse(tt.args))
			t.Cleanup(func() {
				cmd.Flags().Visit(func(f *pflag.Flag) {
					f.Value.Set(f.DefValue)
					f.Changed = false
				})
			})

			got := getServeConfigFromFlags(cmd)
			assert.Equal(t, tt.expected, got)
		})
	}
}
