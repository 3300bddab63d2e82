package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port          string
	Env           string
	AllowedOrigin string

	// Gemini AI
	GeminiAPIKey      string
	GeminiModel       string
	GeminiTimeout     time.Duration
	GeminiTemperature *float32

	// Redis (optional: live updates + archive queue)
	RedisURL string

	// Database (optional: exchange archive)
	DatabaseURL    string
	MigrationsDir  string
	ArchiveWorkers int

	// Logging
	LogLevel  string
	LogFormat string
}

const (
	defaultGeminiTimeout  = 60 * time.Second
	defaultArchiveWorkers = 2
)

// Load reads configuration from the environment, an optional .env file and an optional
// config file named by CONFIG_FILE. A missing GEMINI_API_KEY is not an error.
func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("ENV", "development")
	v.SetDefault("ALLOWED_ORIGIN", "*")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("GEMINI_TIMEOUT", defaultGeminiTimeout.String())
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("ARCHIVE_WORKERS", defaultArchiveWorkers)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Port:           v.GetString("PORT"),
		Env:            v.GetString("ENV"),
		AllowedOrigin:  v.GetString("ALLOWED_ORIGIN"),
		GeminiAPIKey:   v.GetString("GEMINI_API_KEY"),
		GeminiModel:    v.GetString("GEMINI_MODEL"),
		GeminiTimeout:  v.GetDuration("GEMINI_TIMEOUT"),
		RedisURL:       v.GetString("REDIS_URL"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		MigrationsDir:  v.GetString("MIGRATIONS_DIR"),
		ArchiveWorkers: v.GetInt("ARCHIVE_WORKERS"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
	}

	if cfg.GeminiTimeout <= 0 {
		cfg.GeminiTimeout = defaultGeminiTimeout
	}
	if cfg.ArchiveWorkers <= 0 {
		cfg.ArchiveWorkers = defaultArchiveWorkers
	}
	if v.IsSet("GEMINI_TEMPERATURE") {
		t := float32(v.GetFloat64("GEMINI_TEMPERATURE"))
		cfg.GeminiTemperature = &t
	}

	return cfg, nil
}

// ArchiveEnabled reports whether both stores needed by the exchange archive are configured.
func (c *Config) ArchiveEnabled() bool {
	return c.RedisURL != "" && c.DatabaseURL != ""
}
