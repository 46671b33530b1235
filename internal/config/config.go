// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type StripeConfig struct {
	APIKey string `yaml:"api_key"`
	// PlatformWebhookSecret signs platform-account events;
	// ConnectWebhookSecret signs events carrying a connected account field.
	PlatformWebhookSecret string `yaml:"platform_webhook_secret"`
	ConnectWebhookSecret  string `yaml:"connect_webhook_secret"`
}

type DailycloakConfig struct {
	URL         string `yaml:"url"`
	AdminSecret string `yaml:"admin_secret"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DedupConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// UnmarshalYAML accepts the ttl as a duration string ("24h"); yaml has no
// native duration scalar.
func (d *DedupConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Enabled bool   `yaml:"enabled"`
		TTL     string `yaml:"ttl"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	d.Enabled = raw.Enabled
	if raw.TTL != "" {
		ttl, err := time.ParseDuration(raw.TTL)
		if err != nil {
			return fmt.Errorf("dedup.ttl: %w", err)
		}
		d.TTL = ttl
	}
	return nil
}

// WebhookConfig carries the handler policy knobs.
type WebhookConfig struct {
	TrackHistory    bool `yaml:"track_history"`
	StripLines      bool `yaml:"strip_lines"`
	AuditTrail      bool `yaml:"audit_trail"`
	LegacyRetryFlow bool `yaml:"legacy_retry_flow"`
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Stripe     StripeConfig     `yaml:"stripe"`
	Dailycloak DailycloakConfig `yaml:"dailycloak"`
	Redis      RedisConfig      `yaml:"redis"`
	Dedup      DedupConfig      `yaml:"dedup"`
	Webhook    WebhookConfig    `yaml:"webhook"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Secrets may come from the environment instead of the file.
	overlayEnv(&cfg.Stripe.APIKey, "STRIPE_API_KEY")
	overlayEnv(&cfg.Stripe.PlatformWebhookSecret, "WEBHOOK_PLATFORM_SECRET")
	overlayEnv(&cfg.Stripe.ConnectWebhookSecret, "WEBHOOK_CONNECT_SECRET")
	overlayEnv(&cfg.Dailycloak.AdminSecret, "DAILYCLOAK_ADMIN_SECRET")

	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Dedup.TTL <= 0 {
		cfg.Dedup.TTL = 24 * time.Hour
	}
	// Connected-account events fall back to the platform secret when no
	// dedicated secret is configured.
	if cfg.Stripe.ConnectWebhookSecret == "" {
		cfg.Stripe.ConnectWebhookSecret = cfg.Stripe.PlatformWebhookSecret
	}

	// Minimal validation
	if cfg.Stripe.PlatformWebhookSecret == "" {
		return nil, errors.New("stripe.platform_webhook_secret is required")
	}
	if cfg.Dailycloak.URL == "" {
		return nil, errors.New("dailycloak.url is required")
	}
	if cfg.Dailycloak.AdminSecret == "" {
		return nil, errors.New("dailycloak.admin_secret is required")
	}
	if cfg.Dedup.Enabled && cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required when dedup is enabled")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func overlayEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
