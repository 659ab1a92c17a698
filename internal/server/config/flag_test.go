package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-t", "1", "-x", "3",
				"-o", "https://a.example.com,https://b.example.com",
				"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
			},
			expected: &Config{
				HTTPAddr:                    "127.0.0.1:9090",
				DatabaseDSN:                 "db",
				SecretKey:                   "secret",
				AccessTokenValidityDuration: time.Hour,
				UploadURLValidity:           3 * time.Minute,
				AllowedOrigins:              []string{"https://a.example.com", "https://b.example.com"},
				S3RootUser:                  "user",
				S3RootPassword:              "password",
				S3Bucket:                    "bucket",
				S3Region:                    "us-west-1",
				S3BaseEndpoint:              "http://endpoint",
			},
		},
		{
			name: "unset durations keep their value",
			args: []string{"-c", "server.yaml", "-a", ":1"},
			expected: &Config{
				HTTPAddr:                    ":1",
				AccessTokenValidityDuration: 90 * time.Minute,
				UploadURLValidity:           30 * time.Second,
			},
		},
		{name: "bad number", args: []string{"-t", "x"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withArgs(t, tt.args...)

			config := &Config{
				AccessTokenValidityDuration: 90 * time.Minute,
				UploadURLValidity:           30 * time.Second,
			}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
