// Package config loads process-wide configuration from the environment.
//
// Required values (the hosted services the site depends on) are validated at
// startup; a missing value aborts initialization with a descriptive error
// rather than proceeding with degraded behavior.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the Lore web service.
type Config struct {
	Service   ServiceConfig
	Logging   LoggingConfig
	Supabase  SupabaseConfig
	Gemini    GeminiConfig
	Chat      ChatConfig
	Tracing   TracingConfig
	Profiling ProfilingConfig
}

// ServiceConfig identifies the service and its HTTP listener.
type ServiceConfig struct {
	Name                string
	Version             string
	Env                 string
	Port                string
	ShutdownTimeout     string
	ReadinessDrainDelay string
}

// LoggingConfig controls zerolog output.
type LoggingConfig struct {
	Level string
}

// SupabaseConfig points at the hosted auth/data/storage backend.
type SupabaseConfig struct {
	URL          string
	AnonKey      string
	AvatarBucket string
}

// GeminiConfig points at the generative-language backend.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// ChatConfig selects the conversation store driver.
type ChatConfig struct {
	Store     string // "memory" or "redis"
	RedisAddr string
	RedisTTL  string
}

// TracingConfig controls OpenTelemetry OTLP export.
type TracingConfig struct {
	Enabled    bool
	Endpoint   string
	SampleRate float64
}

// ProfilingConfig controls Pyroscope continuous profiling.
type ProfilingConfig struct {
	Enabled  bool
	Endpoint string
}

// Load reads configuration from a .env file (if present) and the process
// environment. Call Validate before using the result.
func Load() *Config {
	// Best effort: the .env file only exists in local development.
	_ = godotenv.Load()

	return &Config{
		Service: ServiceConfig{
			Name:                getEnv("SERVICE_NAME", "lore-web"),
			Version:             getEnv("SERVICE_VERSION", "dev"),
			Env:                 getEnv("SERVICE_ENV", "development"),
			Port:                getEnv("PORT", "8080"),
			ShutdownTimeout:     getEnv("SHUTDOWN_TIMEOUT", "15s"),
			ReadinessDrainDelay: getEnv("READINESS_DRAIN_DELAY", "0s"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Supabase: SupabaseConfig{
			URL:          os.Getenv("SUPABASE_URL"),
			AnonKey:      os.Getenv("SUPABASE_ANON_KEY"),
			AvatarBucket: getEnv("AVATAR_BUCKET", "avatars"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Chat: ChatConfig{
			Store:     getEnv("CHAT_STORE", "memory"),
			RedisAddr: os.Getenv("REDIS_ADDR"),
			RedisTTL:  getEnv("REDIS_TTL", "24h"),
		},
		Tracing: TracingConfig{
			Enabled:    getEnvBool("TRACING_ENABLED", false),
			Endpoint:   getEnv("OTLP_ENDPOINT", "localhost:4318"),
			SampleRate: getEnvFloat("TRACING_SAMPLE_RATE", 1.0),
		},
		Profiling: ProfilingConfig{
			Enabled:  getEnvBool("PROFILING_ENABLED", false),
			Endpoint: getEnv("PYROSCOPE_ENDPOINT", "http://localhost:4040"),
		},
	}
}

// Validate returns an error naming every missing required value.
func (c *Config) Validate() error {
	var missing []string
	if c.Supabase.URL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.Supabase.AnonKey == "" {
		missing = append(missing, "SUPABASE_ANON_KEY")
	}
	if c.Gemini.APIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if c.Chat.Store != "memory" && c.Chat.Store != "redis" {
		return fmt.Errorf("invalid CHAT_STORE %q: must be \"memory\" or \"redis\"", c.Chat.Store)
	}
	if c.Chat.Store == "redis" && c.Chat.RedisAddr == "" {
		return fmt.Errorf("CHAT_STORE=redis requires REDIS_ADDR")
	}
	return nil
}

// GetShutdownTimeoutDuration parses the shutdown timeout, defaulting to 15s.
func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Service.ShutdownTimeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// GetReadinessDrainDelayDuration parses the readiness drain delay, defaulting to zero.
func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	d, err := time.ParseDuration(c.Service.ReadinessDrainDelay)
	if err != nil {
		return 0
	}
	return d
}

// GetRedisTTLDuration parses the redis conversation TTL, defaulting to 24h.
func (c *Config) GetRedisTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.Chat.RedisTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
