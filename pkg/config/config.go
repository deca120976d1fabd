// Package config loads server settings from the environment, an optional .env
// file and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/dasmlab/mozhi/pkg/translate"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all server settings.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	GRPCPort int    `env:"GRPC_PORT" envDefault:"50051"`

	Engine          string        `env:"MT_ENGINE" envDefault:"google"`
	EngineURL       string        `env:"MT_URL"`
	EngineAPIKey    string        `env:"MT_API_KEY"`
	OpenAIModel     string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	MyMemoryEmail   string        `env:"MYMEMORY_EMAIL"`
	GoogleTries     int           `env:"GOOGLE_TRIES" envDefault:"1"`
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"15s"`

	CacheBackend string        `env:"CACHE_BACKEND" envDefault:"none"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"24h"`
	RedisURL     string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	SessionMaxIdle         time.Duration `env:"SESSION_MAX_IDLE" envDefault:"2h"`
	SessionCleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// EnvFile is the optional .env file that was loaded.
	EnvFile string
}

// Load builds a Config from the process environment and args (without the
// program name). A .env file named by --env, or ./.env when present, is loaded
// first; it never overrides variables already set in the environment.
func Load(args []string) (*Config, error) {
	return load(args, nil)
}

// load reads variables from environ when non-nil instead of the process environment.
func load(args []string, environ map[string]string) (*Config, error) {
	fs := flag.NewFlagSet("mozhi", flag.ContinueOnError)
	var (
		envFile  = fs.String("env", "", "Path to a .env file to load")
		httpAddr = fs.String("http-addr", "", "HTTP listen address")
		grpcPort = fs.Int("port", 0, "gRPC server port")
		engine   = fs.String("mt-engine", "", "Translation engine: google, libretranslate, mymemory, openai or static")
		mtURL    = fs.String("mt-url", "", "Base URL for the translation engine API")
		timeout  = fs.Duration("provider-timeout", 0, "Timeout for a single provider call")
		cache    = fs.String("cache", "", "Translation cache: none, memory or redis")
		logLevel = fs.String("log-level", "", "Log level: debug, info, warn, error")
	)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	cfg := &Config{}
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	} else {
		loaded, err := loadEnvFile(*envFile)
		if err != nil {
			return nil, err
		}
		cfg.EnvFile = loaded
	}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "http-addr":
			cfg.HTTPAddr = *httpAddr
		case "port":
			cfg.GRPCPort = *grpcPort
		case "mt-engine":
			cfg.Engine = *engine
		case "mt-url":
			cfg.EngineURL = *mtURL
		case "provider-timeout":
			cfg.ProviderTimeout = *timeout
		case "cache":
			cfg.CacheBackend = *cache
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(cfg.CacheBackend))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFile(path string) (string, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return "", fmt.Errorf("load env file %q: %w", path, err)
		}
		return path, nil
	}
	if _, err := os.Stat(".env"); err != nil {
		return "", nil
	}
	if err := godotenv.Load(); err != nil {
		return "", fmt.Errorf("load .env: %w", err)
	}
	return ".env", nil
}

// Validate checks value ranges and enums.
func (c *Config) Validate() error {
	var errs []error

	if _, err := translate.ParseEngineType(c.Engine); err != nil {
		errs = append(errs, err)
	}
	if c.GRPCPort < 0 || c.GRPCPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid gRPC port %d", c.GRPCPort))
	}
	if c.ProviderTimeout <= 0 {
		errs = append(errs, fmt.Errorf("provider timeout must be positive, got %s", c.ProviderTimeout))
	}
	switch strings.ToLower(c.CacheBackend) {
	case CacheNone, "", CacheMemory, CacheRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q (supported: none, memory, redis)", c.CacheBackend))
	}
	if c.SessionMaxIdle <= 0 {
		errs = append(errs, fmt.Errorf("session max idle must be positive, got %s", c.SessionMaxIdle))
	}
	if c.SessionCleanupInterval <= 0 {
		errs = append(errs, fmt.Errorf("session cleanup interval must be positive, got %s", c.SessionCleanupInterval))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// EngineType returns the parsed engine. Validate must have passed.
func (c *Config) EngineType() translate.EngineType {
	e, _ := translate.ParseEngineType(c.Engine)
	return e
}

// Level returns the parsed log level, defaulting to info.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// Fields returns the settings worth logging at startup. Secrets are omitted.
func (c *Config) Fields() logrus.Fields {
	return logrus.Fields{
		"http_addr":        c.HTTPAddr,
		"grpc_port":        c.GRPCPort,
		"mt_engine":        c.Engine,
		"mt_url":           c.EngineURL,
		"provider_timeout": c.ProviderTimeout.String(),
		"cache_backend":    c.CacheBackend,
		"session_max_idle": c.SessionMaxIdle.String(),
		"log_level":        c.LogLevel,
		"env_file":         c.EnvFile,
	}
}
