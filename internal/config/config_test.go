//go:build !integration

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
stripe:
  platform_webhook_secret: whsec_platform
dailycloak:
  url: https://dailycloak.example.com/v1/graphql
  admin_secret: topsecret
`

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, minimalConfig), false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Server.Port != 8080 {
			t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
		}
		if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
			t.Errorf("unexpected log defaults: %+v", cfg.Log)
		}
		if cfg.Dedup.TTL != 24*time.Hour {
			t.Errorf("expected 24h dedup ttl, got %s", cfg.Dedup.TTL)
		}
		if cfg.Stripe.ConnectWebhookSecret != "whsec_platform" {
			t.Error("expected connect secret to fall back to the platform secret")
		}
		if cfg.Runtime.Dev {
			t.Error("expected prod runtime")
		}
	})

	t.Run("explicit values win over defaults", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, `
server:
  port: 9090
log:
  level: debug
  format: console
stripe:
  platform_webhook_secret: whsec_platform
  connect_webhook_secret: whsec_connect
dailycloak:
  url: https://dailycloak.example.com/v1/graphql
  admin_secret: topsecret
dedup:
  enabled: true
  ttl: 1h
redis:
  url: localhost:6379
webhook:
  track_history: true
  legacy_retry_flow: true
`), true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Server.Port != 9090 || cfg.Log.Level != "debug" {
			t.Errorf("unexpected values: %+v", cfg)
		}
		if cfg.Stripe.ConnectWebhookSecret != "whsec_connect" {
			t.Error("expected dedicated connect secret to be kept")
		}
		if cfg.Dedup.TTL != time.Hour {
			t.Errorf("expected 1h ttl, got %s", cfg.Dedup.TTL)
		}
		if !cfg.Webhook.TrackHistory || !cfg.Webhook.LegacyRetryFlow {
			t.Errorf("unexpected webhook policy: %+v", cfg.Webhook)
		}
		if !cfg.Runtime.Dev {
			t.Error("expected dev runtime")
		}
	})

	t.Run("env overlays file secrets", func(t *testing.T) {
		t.Setenv("WEBHOOK_PLATFORM_SECRET", "whsec_from_env")
		t.Setenv("DAILYCLOAK_ADMIN_SECRET", "secret_from_env")

		cfg, err := LoadConfig(writeConfig(t, minimalConfig), false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Stripe.PlatformWebhookSecret != "whsec_from_env" {
			t.Errorf("expected env secret, got %s", cfg.Stripe.PlatformWebhookSecret)
		}
		if cfg.Dailycloak.AdminSecret != "secret_from_env" {
			t.Errorf("expected env admin secret, got %s", cfg.Dailycloak.AdminSecret)
		}
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name    string
			content string
		}{
			{"missing webhook secret", `
dailycloak:
  url: https://dailycloak.example.com/v1/graphql
  admin_secret: topsecret
`},
			{"missing dailycloak url", `
stripe:
  platform_webhook_secret: whsec_platform
dailycloak:
  admin_secret: topsecret
`},
			{"missing admin secret", `
stripe:
  platform_webhook_secret: whsec_platform
dailycloak:
  url: https://dailycloak.example.com/v1/graphql
`},
			{"dedup without redis", minimalConfig + `
dedup:
  enabled: true
`},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := LoadConfig(writeConfig(t, tc.content), false); err == nil {
					t.Fatal("expected a validation error")
				}
			})
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), false); err == nil {
			t.Fatal("expected an error for a missing file")
		}
	})
}
