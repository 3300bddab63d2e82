package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"axom-backend/internal/config"
)

func TestRun_ReturnsStartupErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{
			name: "invalid redis url",
			cfg:  config.Config{Port: "0", RedisURL: "not-a-url", GeminiTimeout: time.Second},
			want: "redis connection failed",
		},
		{
			name: "unreachable redis",
			cfg:  config.Config{Port: "0", RedisURL: "redis://127.0.0.1:1/0", GeminiTimeout: time.Second},
			want: "redis connection failed",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			err := run(&cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
