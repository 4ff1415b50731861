package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"API_BASE_URL", "APP_ENV", "LOG_LEVEL", "LOG_DIR", "SESSION_FILE",
	"HTTP_TIMEOUT_SECONDS", "API_RATE_LIMIT_RPS", "API_RATE_LIMIT_BURST",
	"PROVIDERS_CACHE_TTL", "O11Y_EXPORTER_ENDPOINT", "O11Y_SERVICE_NAME",
	"O11Y_SERVICE_VERSION", "MOCK_API_PORT", "MOCK_API_JWT_SECRET",
	"MOCK_API_PUBLIC_URL", "MOCK_API_ALLOWED_ORIGINS", "AVATAR_STORAGE",
	"S3_ENDPOINT", "S3_REGION", "S3_BUCKET", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY", "S3_PUBLIC_URL",
	"O11Y_PROFILING_ENABLED", "O11Y_PROFILING_ENDPOINT", "O11Y_PROFILING_SAMPLE_TYPES",
	"O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS",
}

// isolate runs the test in an empty directory with every config key unset.
// Viper treats empty variables as unset, so defaults apply.
func isolate(t *testing.T) {
	t.Helper()

	for _, key := range configKeys {
		t.Setenv(key, "")
	}

	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(originalDir) })
}

func validConfig() *Config {
	return &Config{
		API:     APIConfig{BaseURL: "http://localhost:3333", TimeoutSeconds: 30},
		Session: SessionConfig{File: "session.json"},
		Cache:   CacheConfig{ProvidersTTLSeconds: 60},
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		expected bool
	}{
		{name: "development environment", env: "development", expected: true},
		{name: "production environment", env: "production", expected: false},
		{name: "staging environment", env: "staging", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{App: AppConfig{Env: tt.env}}
			assert.Equal(t, tt.expected, cfg.IsDevelopment())
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		expected bool
	}{
		{name: "production environment", env: "production", expected: true},
		{name: "development environment", env: "development", expected: false},
		{name: "staging environment", env: "staging", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{App: AppConfig{Env: tt.env}}
			assert.Equal(t, tt.expected, cfg.IsProduction())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{
			name:     "missing base URL",
			mutate:   func(c *Config) { c.API.BaseURL = "" },
			errorMsg: "API_BASE_URL is required",
		},
		{
			name:     "relative base URL",
			mutate:   func(c *Config) { c.API.BaseURL = "localhost:3333" },
			errorMsg: "API_BASE_URL must be an absolute http(s) URL",
		},
		{
			name:     "zero timeout",
			mutate:   func(c *Config) { c.API.TimeoutSeconds = 0 },
			errorMsg: "HTTP_TIMEOUT_SECONDS must be positive",
		},
		{
			name:     "negative rate limit",
			mutate:   func(c *Config) { c.API.RateLimitRPS = -1 },
			errorMsg: "API_RATE_LIMIT_RPS must not be negative",
		},
		{
			name:     "missing session file",
			mutate:   func(c *Config) { c.Session.File = "" },
			errorMsg: "SESSION_FILE is required",
		},
		{
			name:     "zero providers TTL",
			mutate:   func(c *Config) { c.Cache.ProvidersTTLSeconds = 0 },
			errorMsg: "PROVIDERS_CACHE_TTL must be positive",
		},
		{
			name:     "unknown avatar storage",
			mutate:   func(c *Config) { c.MockAPI.AvatarStorage = "disk" },
			errorMsg: "AVATAR_STORAGE must be memory or s3",
		},
		{
			name:     "s3 storage without bucket",
			mutate:   func(c *Config) { c.MockAPI.AvatarStorage = "s3"; c.MockAPI.S3.Endpoint = "http://minio:9000" },
			errorMsg: "S3_ENDPOINT and S3_BUCKET are required when AVATAR_STORAGE is s3",
		},
		{
			name: "s3 storage configured",
			mutate: func(c *Config) {
				c.MockAPI.AvatarStorage = "s3"
				c.MockAPI.S3 = S3Config{Endpoint: "http://minio:9000", Bucket: "avatars"}
			},
		},
		{
			name:     "profiling without endpoint",
			mutate:   func(c *Config) { c.Profiling.Enabled = true },
			errorMsg: "O11Y_PROFILING_ENDPOINT is required when profiling is enabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.errorMsg)
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3333", cfg.API.BaseURL)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ".gobarber-session.json", cfg.Session.File)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, time.Minute, cfg.ProvidersTTL())
	assert.Equal(t, float64(5), cfg.API.RateLimitRPS)
	assert.Equal(t, 10, cfg.API.RateLimitBurst)
	assert.Empty(t, cfg.Observability.ExporterEndpoint)
	assert.Equal(t, "gobarber-client", cfg.Observability.ServiceName)
	assert.Equal(t, "3333", cfg.MockAPI.Port)
	assert.Equal(t, "memory", cfg.MockAPI.AvatarStorage)
	assert.Empty(t, cfg.MockAPI.AllowedOrigins)
	assert.False(t, cfg.Profiling.Enabled)
	assert.Equal(t, 15, cfg.Profiling.UploadIntervalSeconds)
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	isolate(t)

	t.Setenv("API_BASE_URL", "https://api.example.com/")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_DIR", "/var/log/gobarber")
	t.Setenv("SESSION_FILE", "/tmp/session.json")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("API_RATE_LIMIT_RPS", "0.5")
	t.Setenv("PROVIDERS_CACHE_TTL", "120")
	t.Setenv("O11Y_EXPORTER_ENDPOINT", "collector:4318")
	t.Setenv("MOCK_API_PORT", "9000")
	t.Setenv("MOCK_API_ALLOWED_ORIGINS", "http://localhost:19006, http://localhost:8081,")
	t.Setenv("AVATAR_STORAGE", "S3")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")
	t.Setenv("S3_BUCKET", "avatars")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/var/log/gobarber", cfg.Logging.Dir)
	assert.Equal(t, "/tmp/session.json", cfg.Session.File)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, 0.5, cfg.API.RateLimitRPS)
	assert.Equal(t, 2*time.Minute, cfg.ProvidersTTL())
	assert.Equal(t, "collector:4318", cfg.Observability.ExporterEndpoint)
	assert.Equal(t, "9000", cfg.MockAPI.Port)
	assert.Equal(t, []string{"http://localhost:19006", "http://localhost:8081"}, cfg.MockAPI.AllowedOrigins)
	assert.Equal(t, "s3", cfg.MockAPI.AvatarStorage)
	assert.Equal(t, "avatars", cfg.MockAPI.S3.Bucket)
}

func TestLoad_ValidationFailure(t *testing.T) {
	isolate(t)
	t.Setenv("API_BASE_URL", "ftp://files.example.com")

	cfg, err := Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
}
