package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable, e.g. TESSERA_PORT.
const Prefix = "TESSERA"

type Config struct {
	Port           int           `envconfig:"PORT" default:"8080"`
	JWTSecret      string        `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	AllowedOrigins string        `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"24h"`

	HistoryCapacity int     `envconfig:"HISTORY_CAPACITY" default:"200"`
	GridSize        float64 `envconfig:"GRID_SIZE" default:"10"`
	HandleSize      float64 `envconfig:"HANDLE_SIZE" default:"8"`
	LineTolerance   float64 `envconfig:"LINE_TOLERANCE" default:"2"`
	MinCreateSize   float64 `envconfig:"MIN_CREATE_SIZE" default:"1"`
	MinZoom         float64 `envconfig:"MIN_ZOOM" default:"0.05"`
	MaxZoom         float64 `envconfig:"MAX_ZOOM" default:"64"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in defaults without reading the environment.
func Default() *Config {
	return &Config{
		Port:            8080,
		JWTSecret:       "dev-secret-change-in-production",
		AllowedOrigins:  "http://localhost:5173,http://localhost:3000",
		LogLevel:        "info",
		SessionTTL:      24 * time.Hour,
		HistoryCapacity: 200,
		GridSize:        10,
		HandleSize:      8,
		LineTolerance:   2,
		MinCreateSize:   1,
		MinZoom:         0.05,
		MaxZoom:         64,
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.HistoryCapacity <= 0 {
		errs = append(errs, fmt.Errorf("history capacity must be positive, got %d", c.HistoryCapacity))
	}
	if c.GridSize <= 0 {
		errs = append(errs, fmt.Errorf("grid size must be positive, got %v", c.GridSize))
	}
	if c.HandleSize <= 0 {
		errs = append(errs, fmt.Errorf("handle size must be positive, got %v", c.HandleSize))
	}
	if c.LineTolerance <= 0 {
		errs = append(errs, fmt.Errorf("line tolerance must be positive, got %v", c.LineTolerance))
	}
	if c.MinZoom <= 0 || c.MaxZoom < c.MinZoom {
		errs = append(errs, fmt.Errorf("zoom bounds must satisfy 0 < min <= max, got %v..%v", c.MinZoom, c.MaxZoom))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

// Origins splits AllowedOrigins on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
