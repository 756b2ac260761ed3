package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prefix is the environment variable prefix, e.g. GRUDGEBOOK_DB_PATH.
const Prefix = "GRUDGEBOOK"

// Config holds the terminal host settings.
type Config struct {
	// DBPath is the SQLite file holding the record and theme slots.
	// Empty means DefaultDBPath.
	DBPath string `envconfig:"DB_PATH" default:""`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	RecentLimit int    `envconfig:"RECENT_LIMIT" default:"5"`

	// FailSoft loads a corrupt record slot as empty instead of failing.
	FailSoft bool `envconfig:"FAIL_SOFT" default:"false"`
}

// LoadDotEnv reads path into the environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// New parses the environment, after loading .env from the working directory.
func New() (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if cfg.RecentLimit <= 0 {
		return nil, fmt.Errorf("%s_RECENT_LIMIT must be positive, got %d", Prefix, cfg.RecentLimit)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}

	if cfg.DBPath == "" {
		path, err := DefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = path
	}

	log.Debug().
		Str("db_path", cfg.DBPath).
		Str("log_level", cfg.LogLevel).
		Int("recent_limit", cfg.RecentLimit).
		Bool("fail_soft", cfg.FailSoft).
		Msg("config loaded")

	return &cfg, nil
}

// Level parses LogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(c.LogLevel)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid %s_LOG_LEVEL %q: %w", Prefix, c.LogLevel, err)
	}
	return lvl, nil
}
