// Package config loads process settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the runner's settings. Empty RedisAddr or DatabaseURL leaves
// that backend disabled.
type Config struct {
	LogLevel    string
	LogFormat   string // "text" or "json"
	Players     int
	Seed        uint64
	RedisAddr   string
	DatabaseURL string
	MaxTurns    int
}

// Load reads the given .env files (".env" when none are named) and then the
// HANDFOOT_* environment variables. Variables already set in the environment
// win over the files. Missing files are ignored.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := Config{
		LogLevel:    getEnv("HANDFOOT_LOG_LEVEL", "info"),
		LogFormat:   getEnv("HANDFOOT_LOG_FORMAT", "text"),
		RedisAddr:   os.Getenv("HANDFOOT_REDIS_ADDR"),
		DatabaseURL: os.Getenv("HANDFOOT_DATABASE_URL"),
	}
	var err error
	if cfg.Players, err = intEnv("HANDFOOT_PLAYERS", 4); err != nil {
		return Config{}, err
	}
	if cfg.MaxTurns, err = intEnv("HANDFOOT_MAX_TURNS", 20000); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("HANDFOOT_SEED"); v != "" {
		if cfg.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return Config{}, fmt.Errorf("HANDFOOT_SEED: %w", err)
		}
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// NewLogger builds a logrus logger for level and format.
func NewLogger(level, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	log := logrus.New()
	log.SetLevel(lvl)
	switch format {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return log, nil
}
