package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurevia/walletsync/pkg/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Port:                  "8080",
		Env:                   "development",
		DatabaseURL:           "postgres://localhost:5432/walletsync",
		JWTSecret:             strings.Repeat("s", 32),
		TargetChainID:         1,
		SilentRefreshInterval: 15 * time.Second,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:   "valid development config",
			mutate: func(c *config.Config) {},
		},
		{
			name:    "missing database url",
			mutate:  func(c *config.Config) { c.DatabaseURL = "" },
			wantErr: "DATABASE_URL is required",
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *config.Config) { c.JWTSecret = "" },
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *config.Config) { c.JWTSecret = "too-short" },
			wantErr: "at least 32 characters",
		},
		{
			name:    "zero chain id",
			mutate:  func(c *config.Config) { c.TargetChainID = 0 },
			wantErr: "TARGET_CHAIN_ID must be positive",
		},
		{
			name:   "empty token contract allowed in development",
			mutate: func(c *config.Config) { c.TokenContract = "" },
		},
		{
			name:    "empty token contract rejected in production",
			mutate:  func(c *config.Config) { c.Env = "production"; c.WatchAddress = "0xabc" },
			wantErr: "TOKEN_CONTRACT is required in production",
		},
		{
			name: "empty watch address rejected in production",
			mutate: func(c *config.Config) {
				c.Env = "production"
				c.TokenContract = "0xdAC17F958D2ee523a2206206994597C13D831ec7"
			},
			wantErr: "WATCH_ADDRESS is required in production",
		},
		{
			name:    "sub-second refresh interval",
			mutate:  func(c *config.Config) { c.SilentRefreshInterval = 500 * time.Millisecond },
			wantErr: "SILENT_REFRESH_SECONDS must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/walletsync")
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, int64(1), cfg.TargetChainID)
	assert.Equal(t, "networks.yaml", cfg.NetworksConfigPath)
	assert.Equal(t, 15*time.Second, cfg.SilentRefreshInterval)
	assert.Equal(t, 50, cfg.HistoryLimit)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/walletsync")
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))
	t.Setenv("TARGET_CHAIN_ID", "137")
	t.Setenv("SILENT_REFRESH_SECONDS", "30")
	t.Setenv("HISTORY_LIMIT", "100")
	t.Setenv("WATCH_ADDRESS", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, int64(137), cfg.TargetChainID)
	assert.Equal(t, 30*time.Second, cfg.SilentRefreshInterval)
	assert.Equal(t, 100, cfg.HistoryLimit)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", cfg.WatchAddress)
}
