package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "HELLO_"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	API APIConfig `envPrefix:"API_"`
	Log LogConfig `envPrefix:"LOG_"`
}

type APIConfig struct {
	ListenAddr      string        `env:"LISTEN"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	APIKey         string   `env:"KEY"`
	KeyOnGreeting  bool     `env:"KEY_ON_GREETING"`

	RateLimit float64 `env:"RATE_LIMIT"` // requests/sec per client, 0 disables
	RateBurst float64 `env:"RATE_BURST"`
}

type LogConfig struct {
	Level  string `env:"LEVEL"`  // debug|info|warn|error
	Format string `env:"FORMAT"` // json|text
}

func Default() Config {
	return Config{
		API: APIConfig{
			ListenAddr:      "127.0.0.1:8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 8 * time.Second,
			AllowedOrigins:  []string{},
			RateLimit:       20,
			RateBurst:       40,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load returns the defaults overlaid with HELLO_* variables. A nil environ
// reads the process environment.
func Load(environ map[string]string) (Config, error) {
	cfg := Default()
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// BindFlags registers command-line overrides on fs. The current values of
// cfg become the flag defaults, so flags win over the environment.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.API.ListenAddr, "api.listen", cfg.API.ListenAddr, "HTTP listen address (ip:port)")
	fs.DurationVar(&cfg.API.ReadTimeout, "api.readTimeout", cfg.API.ReadTimeout, "HTTP read timeout")
	fs.DurationVar(&cfg.API.WriteTimeout, "api.writeTimeout", cfg.API.WriteTimeout, "HTTP write timeout")
	fs.DurationVar(&cfg.API.IdleTimeout, "api.idleTimeout", cfg.API.IdleTimeout, "HTTP keep-alive idle timeout")
	fs.DurationVar(&cfg.API.ShutdownTimeout, "api.shutdownTimeout", cfg.API.ShutdownTimeout, "Grace period for in-flight requests on shutdown")
	fs.StringSliceVar(&cfg.API.AllowedOrigins, "api.allowedOrigins", cfg.API.AllowedOrigins, "Comma-separated CORS origins (exact match)")
	fs.StringVar(&cfg.API.APIKey, "api.key", cfg.API.APIKey, "Optional API key expected in X-API-Key")
	fs.BoolVar(&cfg.API.KeyOnGreeting, "api.keyOnGreeting", cfg.API.KeyOnGreeting, "Require the API key on greeting routes")
	fs.Float64Var(&cfg.API.RateLimit, "api.rateLimit", cfg.API.RateLimit, "Requests per second per client (0 disables)")
	fs.Float64Var(&cfg.API.RateBurst, "api.rateBurst", cfg.API.RateBurst, "Rate limiter burst size")

	fs.StringVar(&cfg.Log.Level, "log.level", cfg.Log.Level, "Log level: debug|info|warn|error")
	fs.StringVar(&cfg.Log.Format, "log.format", cfg.Log.Format, "Log format: json|text")
}

// Parse resolves defaults, environment and args in that order and validates
// the result.
func Parse(args []string, environ map[string]string) (Config, error) {
	cfg, err := Load(environ)
	if err != nil {
		return Config{}, err
	}

	fs := pflag.NewFlagSet("hello-server", pflag.ContinueOnError)
	BindFlags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg = Normalize(cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Normalize trims string fields and drops empty origins.
func Normalize(cfg Config) Config {
	cfg.API.ListenAddr = strings.TrimSpace(cfg.API.ListenAddr)
	cfg.API.APIKey = strings.TrimSpace(cfg.API.APIKey)
	cfg.Log.Level = strings.TrimSpace(cfg.Log.Level)
	cfg.Log.Format = strings.TrimSpace(cfg.Log.Format)

	origins := make([]string, 0, len(cfg.API.AllowedOrigins))
	for _, o := range cfg.API.AllowedOrigins {
		if t := strings.TrimSpace(o); t != "" {
			origins = append(origins, t)
		}
	}
	cfg.API.AllowedOrigins = origins
	return cfg
}

func Validate(cfg Config) error {
	if cfg.API.ListenAddr == "" {
		return invalid("api.listen must not be empty")
	}
	if cfg.API.ReadTimeout <= 0 || cfg.API.WriteTimeout <= 0 || cfg.API.IdleTimeout <= 0 {
		return invalid("api timeouts must be positive")
	}
	if cfg.API.ShutdownTimeout <= 0 {
		return invalid("api.shutdownTimeout must be positive")
	}
	if cfg.API.KeyOnGreeting && cfg.API.APIKey == "" {
		return invalid("api.keyOnGreeting requires api.key")
	}
	if cfg.API.RateLimit < 0 {
		return invalid(fmt.Sprintf("api.rateLimit out of range: %v", cfg.API.RateLimit))
	}
	if cfg.API.RateBurst < 0 || (cfg.API.RateLimit > 0 && cfg.API.RateBurst < 1) {
		return invalid(fmt.Sprintf("api.rateBurst out of range: %v", cfg.API.RateBurst))
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid(fmt.Sprintf("invalid log.level: %q", cfg.Log.Level))
	}

	switch strings.ToLower(cfg.Log.Format) {
	case "json", "text":
	default:
		return invalid(fmt.Sprintf("invalid log.format: %q", cfg.Log.Format))
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalid, msg)
}
