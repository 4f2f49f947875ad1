package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "BYOSNAP"

type Config struct {
	Server struct {
		Addr         string        `mapstructure:"addr"`
		Mode         string        `mapstructure:"mode"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
	} `mapstructure:"server"`

	Service struct {
		Name   string `mapstructure:"name"`
		Prefix string `mapstructure:"prefix"`
	} `mapstructure:"service"`

	Auth struct {
		HeaderKeys struct {
			Gateway  string `mapstructure:"gateway"`
			AuthType string `mapstructure:"auth_type"`
			UserID   string `mapstructure:"user_id"`
		} `mapstructure:"header_keys"`
	} `mapstructure:"auth"`

	Redis struct {
		URL      string        `mapstructure:"url"`
		PoolSize int           `mapstructure:"pool_size"`
		GameTTL  time.Duration `mapstructure:"game_ttl"`
	} `mapstructure:"redis"`

	Profiles struct {
		URL        string        `mapstructure:"url"`
		Timeout    time.Duration `mapstructure:"timeout"`
		RetryCount int           `mapstructure:"retry_count"`
	} `mapstructure:"profiles"`

	Observability struct {
		MetricsEnabled     bool   `mapstructure:"metrics_enabled"`
		TraceEnabled       bool   `mapstructure:"trace_enabled"`
		TracingEndpointURL string `mapstructure:"tracing_endpoint_url"`
		LogLevel           string `mapstructure:"log_level"`
		Format             string `mapstructure:"log_format"`
		LogSource          bool   `mapstructure:"log_source"`
	} `mapstructure:"observability"`

	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
		AllowedHeaders []string `mapstructure:"allowed_headers"`
		AllowedMethods []string `mapstructure:"allowed_methods"`
	} `mapstructure:"cors"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":5003")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)

	v.SetDefault("service.name", "byosnap-basic")
	v.SetDefault("service.prefix", "byosnap-basic")

	v.SetDefault("auth.header_keys.gateway", "Gateway")
	v.SetDefault("auth.header_keys.auth_type", "Auth-Type")
	v.SetDefault("auth.header_keys.user_id", "User-Id")

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.game_ttl", time.Duration(0))

	v.SetDefault("profiles.url", "")
	v.SetDefault("profiles.timeout", 10*time.Second)
	v.SetDefault("profiles.retry_count", 2)

	v.SetDefault("observability.metrics_enabled", true)
	v.SetDefault("observability.trace_enabled", false)
	v.SetDefault("observability.tracing_endpoint_url", "")
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.log_format", "json")
	v.SetDefault("observability.log_source", false)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "Token", "Api-Key", "App-Key", "Gateway", "User-Id", "Auth-Type"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"})
}

// Load reads config.yaml from the given directories (optional), overlays
// config.$APP_ENV.yaml and then BYOSNAP_* environment variables.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	logger := slog.Default()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		logger.Info("No config file found, using defaults and environment")
	}

	if env := os.Getenv("APP_ENV"); env != "" {
		v.SetConfigName(fmt.Sprintf("config.%s", env))
		if err := v.MergeInConfig(); err != nil {
			logger.Info("No environment-specific config (optional)", slog.String("env", env))
		} else {
			logger.Info("Environment-specific config loaded", slog.String("env", env))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load("./config", ".")
	if err != nil {
		slog.Default().Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	return cfg
}

func (c *Config) Validate() error {
	if strings.Trim(c.Service.Prefix, "/") == "" {
		return errors.New("service.prefix must not be empty")
	}
	keys := c.Auth.HeaderKeys
	if keys.Gateway == "" || keys.AuthType == "" || keys.UserID == "" {
		return errors.New("auth.header_keys must name all three headers")
	}
	return nil
}
