package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is assembled from four layers, later layers winning: built-in
// defaults, an optional YAML file, MEMODECK_* environment variables, and
// command-line flags.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	DB      DBConfig      `koanf:"db"`
	Auth    AuthConfig    `koanf:"auth"`
	LLM     LLMConfig     `koanf:"llm"`
	Janitor JanitorConfig `koanf:"janitor"`
}

type ServerConfig struct {
	Address         string        `koanf:"address" validate:"required"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

type DBConfig struct {
	Path string `koanf:"path" validate:"required"`
}

type AuthConfig struct {
	// Secret signs session tokens. No default on purpose.
	Secret   string        `koanf:"secret" validate:"required,min=16"`
	TokenTTL time.Duration `koanf:"token_ttl" validate:"gt=0"`
}

type LLMConfig struct {
	URL           string `koanf:"url" validate:"required,url"`
	Model         string `koanf:"model" validate:"required"`
	APIKey        string `koanf:"api_key"`
	MaxConcurrent int    `koanf:"max_concurrent" validate:"gte=1"`
}

type JanitorConfig struct {
	Interval time.Duration `koanf:"interval" validate:"gt=0"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		DB: DBConfig{
			Path: "memodeck.db",
		},
		Auth: AuthConfig{
			TokenTTL: 7 * 24 * time.Hour,
		},
		LLM: LLMConfig{
			URL:           "http://localhost:11434",
			Model:         "llama-3.3-70b-versatile",
			MaxConcurrent: 3,
		},
		Janitor: JanitorConfig{
			Interval: 24 * time.Hour,
		},
	}
}

// envPrefix is stripped from environment variables before they become
// config keys: MEMODECK_AUTH_TOKEN_TTL -> auth.token_ttl.
const envPrefix = "MEMODECK_"

// Load builds the configuration. flags may define keys like
// "server.address"; configFile is optional and may be empty.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	// A .env file is a convenience for local development; absence is fine.
	_ = godotenv.Load()

	k := koanf.New(".")

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configFile, err)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		// Only the first underscore separates section from key, so
		// AUTH_TOKEN_TTL maps to auth.token_ttl.
		return strings.Replace(key, "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("flag config: %w", err)
		}
	}

	cfg := defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load for main: print and exit on error.
func MustLoad(flags *pflag.FlagSet, configFile string) *Config {
	cfg, err := Load(flags, configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg
}
