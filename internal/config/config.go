package config

import (
	"fmt"
	"strings"
	"time"

	"rps_referee/internal/logger"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string `env:"APP_PORT" envDefault:"8080"`
	AllowedOrigin string `env:"ALLOWED_ORIGIN"`
	JWTSecret     string `env:"JWT_SECRET"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON       bool   `env:"LOG_JSON" envDefault:"false"`

	// Storage. Postgres wins over SQLite when both are set; neither means
	// finished games are not recorded.
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Game
	MaxRounds  int           `env:"MAX_ROUNDS" envDefault:"3"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"1h"`

	// Rate limits (window in seconds)
	APIRateLimit   int `env:"API_RATE_LIMIT" envDefault:"120"`
	APIRateWindow  int `env:"API_RATE_WINDOW_SECONDS" envDefault:"60"`
	GameRateLimit  int `env:"GAME_RATE_LIMIT" envDefault:"60"`
	GameRateWindow int `env:"GAME_RATE_WINDOW" envDefault:"60"`
}

// Parse reads .env (if present) and the environment.
func Parse() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load is Parse that exits on error.
func Load() *Config {
	cfg, err := Parse()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.MaxRounds <= 0 {
		return fmt.Errorf("MAX_ROUNDS must be positive, got %d", c.MaxRounds)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.GameRateLimit <= 0 || c.GameRateWindow <= 0 {
		return fmt.Errorf("GAME_RATE_LIMIT and GAME_RATE_WINDOW must be positive")
	}
	if c.APIRateLimit <= 0 || c.APIRateWindow <= 0 {
		return fmt.Errorf("API_RATE_LIMIT and API_RATE_WINDOW_SECONDS must be positive")
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	return nil
}

// RequireJWT is checked by binaries that issue player tokens.
func (c *Config) RequireJWT() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	return nil
}

func (c *Config) GameWindow() time.Duration {
	return time.Duration(c.GameRateWindow) * time.Second
}

func (c *Config) APIWindow() time.Duration {
	return time.Duration(c.APIRateWindow) * time.Second
}
