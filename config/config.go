package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	API           APIConfig
	App           AppConfig
	Session       SessionConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
	Cache         CacheConfig
	MockAPI       MockAPIConfig
}

type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int
	RateLimitRPS   float64
	RateLimitBurst int
}

type AppConfig struct {
	Env string
}

type SessionConfig struct {
	File string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint string
	ServiceName      string
	ServiceVersion   string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	SampleTypes           string
	UploadIntervalSeconds int
}

type CacheConfig struct {
	ProvidersTTLSeconds int
}

type MockAPIConfig struct {
	Port           string
	JWTSecret      string
	PublicURL      string
	AllowedOrigins []string
	AvatarStorage  string // memory or s3
	S3             S3Config
}

type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("API_BASE_URL", "http://localhost:3333")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("SESSION_FILE", ".gobarber-session.json")
	v.SetDefault("HTTP_TIMEOUT_SECONDS", 30)
	v.SetDefault("API_RATE_LIMIT_RPS", 5)
	v.SetDefault("API_RATE_LIMIT_BURST", 10)
	v.SetDefault("PROVIDERS_CACHE_TTL", 60) // seconds
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "") // tracing disabled when empty
	v.SetDefault("O11Y_SERVICE_NAME", "gobarber-client")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")
	v.SetDefault("MOCK_API_PORT", "3333")
	v.SetDefault("MOCK_API_JWT_SECRET", "gobarber-mockapi-secret")
	v.SetDefault("MOCK_API_PUBLIC_URL", "")
	v.SetDefault("MOCK_API_ALLOWED_ORIGINS", "")
	v.SetDefault("AVATAR_STORAGE", "memory")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	// Parse allowed CORS origins (comma-separated)
	allowedOrigins := []string{}
	for _, origin := range strings.Split(v.GetString("MOCK_API_ALLOWED_ORIGINS"), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins = append(allowedOrigins, origin)
		}
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL:        strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			TimeoutSeconds: v.GetInt("HTTP_TIMEOUT_SECONDS"),
			RateLimitRPS:   v.GetFloat64("API_RATE_LIMIT_RPS"),
			RateLimitBurst: v.GetInt("API_RATE_LIMIT_BURST"),
		},
		App: AppConfig{
			Env: v.GetString("APP_ENV"),
		},
		Session: SessionConfig{
			File: v.GetString("SESSION_FILE"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint: v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:      v.GetString("O11Y_SERVICE_NAME"),
			ServiceVersion:   v.GetString("O11Y_SERVICE_VERSION"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
		Cache: CacheConfig{
			ProvidersTTLSeconds: v.GetInt("PROVIDERS_CACHE_TTL"),
		},
		MockAPI: MockAPIConfig{
			Port:           v.GetString("MOCK_API_PORT"),
			JWTSecret:      v.GetString("MOCK_API_JWT_SECRET"),
			PublicURL:      strings.TrimRight(v.GetString("MOCK_API_PUBLIC_URL"), "/"),
			AllowedOrigins: allowedOrigins,
			AvatarStorage:  strings.ToLower(v.GetString("AVATAR_STORAGE")),
			S3: S3Config{
				Endpoint:        v.GetString("S3_ENDPOINT"),
				Region:          v.GetString("S3_REGION"),
				Bucket:          v.GetString("S3_BUCKET"),
				AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
				SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
				PublicURL:       v.GetString("S3_PUBLIC_URL"),
			},
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute http(s) URL")
	}

	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive")
	}
	if c.API.RateLimitRPS < 0 {
		return fmt.Errorf("API_RATE_LIMIT_RPS must not be negative")
	}
	if c.Session.File == "" {
		return fmt.Errorf("SESSION_FILE is required")
	}
	if c.Cache.ProvidersTTLSeconds <= 0 {
		return fmt.Errorf("PROVIDERS_CACHE_TTL must be positive")
	}

	switch c.MockAPI.AvatarStorage {
	case "", "memory":
	case "s3":
		if c.MockAPI.S3.Bucket == "" || c.MockAPI.S3.Endpoint == "" {
			return fmt.Errorf("S3_ENDPOINT and S3_BUCKET are required when AVATAR_STORAGE is s3")
		}
	default:
		return fmt.Errorf("AVATAR_STORAGE must be memory or s3")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// HTTPTimeout returns the per-request timeout of the API client
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// ProvidersTTL returns how long provider lists stay cached
func (c *Config) ProvidersTTL() time.Duration {
	return time.Duration(c.Cache.ProvidersTTLSeconds) * time.Second
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
