package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultPort             = "5000"
	DefaultLogFormat        = "json"
	DefaultRequestTimeout   = 10 * time.Second
	DefaultMaxMessageLength = 2000

	EnvDevelopment = "development"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Port              string        `validate:"required,numeric"`
	Env               string        `validate:"omitempty,alphanum"`
	LogLevel          string        `validate:"required,oneof=debug info warn error"`
	LogFormat         string        `validate:"required,oneof=json text"`
	KnowledgeBasePath string        `validate:"omitempty,file"`
	RequestTimeout    time.Duration `validate:"min=1s,max=5m"`
	MaxMessageLength  int           `validate:"gt=0"`
}

// Load reads configuration from the environment. Values in the given env
// files (or ./.env when none are given) are applied first without overriding
// variables that are already set.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else {
		for _, f := range envFiles {
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("%w: failed to load %s: %v", ErrInvalidConfig, f, err)
			}
		}
	}

	cfg := &Config{
		Port:              getenv("PORT", DefaultPort),
		Env:               strings.ToLower(os.Getenv("APP_ENV")),
		LogFormat:         strings.ToLower(getenv("LOG_FORMAT", DefaultLogFormat)),
		KnowledgeBasePath: os.Getenv("KNOWLEDGE_BASE_PATH"),
		RequestTimeout:    DefaultRequestTimeout,
		MaxMessageLength:  DefaultMaxMessageLength,
	}

	defaultLevel := "info"
	if cfg.Development() {
		defaultLevel = "debug"
	}
	cfg.LogLevel = strings.ToLower(getenv("LOG_LEVEL", defaultLevel))

	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%w: REQUEST_TIMEOUT: %v", ErrInvalidConfig, err)
		}
		cfg.RequestTimeout = d
	}

	if v := os.Getenv("MAX_MESSAGE_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: MAX_MESSAGE_LENGTH: %v", ErrInvalidConfig, err)
		}
		cfg.MaxMessageLength = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) Development() bool {
	return c.Env == EnvDevelopment
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the structured logger described by the config.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
