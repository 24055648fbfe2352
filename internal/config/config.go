package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/skyfare/internal/travelpayouts"
	"github.com/spf13/viper"
)

// ErrMissingToken is returned by Load when no upstream credential is configured.
var ErrMissingToken = errors.New("config: TRAVELPAYOUT_TOKEN is required")

// Config holds all configuration options for the flight search proxy
type Config struct {
	Server    ServerConfig
	Upstream  UpstreamConfig
	Search    SearchConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Address        string
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// UpstreamConfig describes the Travelpayouts API
type UpstreamConfig struct {
	Token         string
	PricesURL     string
	PlacesURL     string
	Timeout       time.Duration
	Retries       int
	Backoff       time.Duration
	RatePerSecond float64

	// Sandbox serves generated data instead of calling Travelpayouts.
	Sandbox         bool
	SandboxFailRate float64
}

type SearchConfig struct {
	Defaults travelpayouts.Defaults
}

type CacheConfig struct {
	TTL time.Duration
}

// RateLimitConfig bounds inbound searches per client IP
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type LogConfig struct {
	Level string
}

// NewViper returns a viper instance with defaults, env bindings and, when path is
// non-empty, the YAML file at path merged in.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SKYFARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// legacy names used by existing deployments
	_ = v.BindEnv("upstream.token", "SKYFARE_UPSTREAM_TOKEN", "TRAVELPAYOUT_TOKEN")
	_ = v.BindEnv("server.port", "SKYFARE_SERVER_PORT", "PORT")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	d := travelpayouts.StandardDefaults()

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.request_timeout", 10*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("upstream.prices_url", travelpayouts.DefaultPricesURL)
	v.SetDefault("upstream.places_url", travelpayouts.DefaultPlacesURL)
	v.SetDefault("upstream.timeout", 10*time.Second)
	v.SetDefault("upstream.retries", 2)
	v.SetDefault("upstream.backoff", 200*time.Millisecond)
	v.SetDefault("upstream.rate_per_second", 0)
	v.SetDefault("upstream.sandbox", false)
	v.SetDefault("upstream.sandbox_fail_rate", 0.0)

	v.SetDefault("search.defaults.direct", d.Direct)
	v.SetDefault("search.defaults.sorting", d.Sorting)
	v.SetDefault("search.defaults.limit", d.Limit)
	v.SetDefault("search.defaults.currency", d.Currency)

	v.SetDefault("cache.ttl", 60*time.Second)
	v.SetDefault("ratelimit.requests", 10)
	v.SetDefault("ratelimit.window", time.Minute)
	v.SetDefault("log.level", "info")
}

// Load reads configuration from the optional file at path and the environment.
func Load(path string) (*Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

func FromViper(v *viper.Viper) (*Config, error) {
	addr := v.GetString("server.address")
	if port := v.GetString("server.port"); port != "" {
		addr = ":" + port
	}

	cfg := &Config{
		Server: ServerConfig{
			Address:        addr,
			RequestTimeout: v.GetDuration("server.request_timeout"),
			AllowedOrigins: v.GetStringSlice("server.allowed_origins"),
		},
		Upstream: UpstreamConfig{
			Token:         strings.TrimSpace(v.GetString("upstream.token")),
			PricesURL:     v.GetString("upstream.prices_url"),
			PlacesURL:     v.GetString("upstream.places_url"),
			Timeout:       v.GetDuration("upstream.timeout"),
			Retries:       v.GetInt("upstream.retries"),
			Backoff:       v.GetDuration("upstream.backoff"),
			RatePerSecond: v.GetFloat64("upstream.rate_per_second"),

			Sandbox:         v.GetBool("upstream.sandbox"),
			SandboxFailRate: v.GetFloat64("upstream.sandbox_fail_rate"),
		},
		Search: SearchConfig{
			Defaults: travelpayouts.Defaults{
				Direct:   v.GetBool("search.defaults.direct"),
				Sorting:  v.GetString("search.defaults.sorting"),
				Limit:    v.GetInt("search.defaults.limit"),
				Currency: v.GetString("search.defaults.currency"),
			},
		},
		Cache:     CacheConfig{TTL: v.GetDuration("cache.ttl")},
		RateLimit: RateLimitConfig{Requests: v.GetInt("ratelimit.requests"), Window: v.GetDuration("ratelimit.window")},
		Log:       LogConfig{Level: v.GetString("log.level")},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Upstream.Token == "" && !c.Upstream.Sandbox {
		return ErrMissingToken
	}
	if c.Upstream.Retries < 0 {
		return &ConfigError{Field: "upstream.retries", Message: "must not be negative"}
	}
	if c.Upstream.Timeout <= 0 {
		return &ConfigError{Field: "upstream.timeout", Message: "must be positive"}
	}
	if c.Search.Defaults.Limit <= 0 {
		return &ConfigError{Field: "search.defaults.limit", Message: "must be positive"}
	}
	if c.RateLimit.Requests > 0 && c.RateLimit.Window <= 0 {
		return &ConfigError{Field: "ratelimit.window", Message: "must be positive when ratelimit.requests is set"}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return &ConfigError{Field: "log.level", Message: err.Error()}
	}
	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config: " + e.Field + ": " + e.Message
}

func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}
