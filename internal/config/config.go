// Package config loads runtime settings from PEARTREE_WEB_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "PEARTREE_WEB_"

// Config captures all runtime configuration.
type Config struct {
	Port         string `env:"PORT"`
	TemplatesDir string `env:"TEMPLATES_DIR" envDefault:"templates"`
	PublicDir    string `env:"PUBLIC_DIR" envDefault:"public"`
	ContentDir   string `env:"CONTENT_DIR" envDefault:"content"`
	OutDir       string `env:"OUT_DIR" envDefault:"dist"`
	Env          string `env:"ENV" envDefault:"local"`
	Dev          bool   `env:"DEV"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	BaseURL      string `env:"BASE_URL"`
	GCPProject   string `env:"GCP_PROJECT"` // enables Cloud Logging trace correlation

	Server    ServerConfig
	Analytics AnalyticsConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"10s"`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// AnalyticsConfig holds client instrumentation ids surfaced to templates.
type AnalyticsConfig struct {
	GA4MeasurementID string `env:"GA_MEASUREMENT_ID"` // e.g. G-XXXXXXXXXX
	GTMContainerID   string `env:"GTM_CONTAINER_ID"`  // e.g. GTM-XXXXXXX
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Production reports whether the site runs in production.
func (c Config) Production() bool {
	return strings.EqualFold(c.Env, "prod") || strings.EqualFold(c.Env, "production")
}

type loadOptions struct {
	env       map[string]string
	systemEnv bool
}

// Option customises Load.
type Option func(*loadOptions)

// WithEnvMap supplies additional variables; they win over the process environment.
func WithEnvMap(m map[string]string) Option {
	return func(o *loadOptions) { o.env = m }
}

// WithoutSystemEnv ignores the process environment.
func WithoutSystemEnv() Option {
	return func(o *loadOptions) { o.systemEnv = false }
}

// Load resolves configuration. Port resolution prefers PEARTREE_WEB_PORT,
// then Cloud Run's PORT, else 8080.
func Load(opts ...Option) (Config, error) {
	o := loadOptions{systemEnv: true}
	for _, opt := range opts {
		opt(&o)
	}
	vars := map[string]string{}
	if o.systemEnv {
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				vars[k] = v
			}
		}
	}
	for k, v := range o.env {
		vars[k] = v
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars, Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if cfg.Port == "" {
		cfg.Port = vars["PORT"]
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	return cfg, nil
}
