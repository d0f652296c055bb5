package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.App.Name != "404-as-a-Service" {
		t.Fatalf("expected default app name, got %q", cfg.App.Name)
	}
	if cfg.Server.Port != 8000 || cfg.Server.Host != "0.0.0.0" {
		t.Fatalf("expected 0.0.0.0:8000, got %s", cfg.Addr())
	}
	if cfg.Server.APIPrefix != "/api" {
		t.Fatalf("expected /api prefix, got %q", cfg.Server.APIPrefix)
	}
	if cfg.Catalog.Source != "data/reasons.json" {
		t.Fatalf("expected default catalog source, got %q", cfg.Catalog.Source)
	}
	if cfg.LoadTimeout() != 10*time.Second {
		t.Fatalf("expected 10s load timeout, got %v", cfg.LoadTimeout())
	}
	if cfg.App.Debug || cfg.Logging.Development {
		t.Fatalf("expected production logging by default")
	}
	if cfg.PubSubEnabled() || cfg.PublishEnabled() {
		t.Fatalf("expected pubsub to be disabled by default")
	}
	if cfg.Admin.ReloadPerMinute != 6 || cfg.Admin.ReloadBurst != 2 {
		t.Fatalf("expected default reload limits, got %+v", cfg.Admin)
	}
}

func TestLoadWithFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
app:
  name: broken-links
  debug: true
server:
  host: 127.0.0.1
  port: 9090
  api_prefix: /v2
  shutdown_timeout_seconds: 3
catalog:
  source: gs://bucket/reasons.json
  load_timeout_seconds: 4
admin:
  api_key: secret
aws:
  region: eu-west-1
pubsub:
  project_id: proj
  subscription: catalog-updates
  topic: catalog-reloads
logging:
  development: false
  level: debug
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.App.Name != "broken-links" || !cfg.App.Debug {
		t.Fatalf("expected app overrides to apply: %+v", cfg.App)
	}
	if cfg.Addr() != "127.0.0.1:9090" {
		t.Fatalf("expected 127.0.0.1:9090, got %s", cfg.Addr())
	}
	if cfg.Server.APIPrefix != "/v2" || cfg.ShutdownTimeout() != 3*time.Second {
		t.Fatalf("expected server overrides to apply: %+v", cfg.Server)
	}
	if cfg.Catalog.Source != "gs://bucket/reasons.json" || cfg.LoadTimeout() != 4*time.Second {
		t.Fatalf("expected catalog overrides to apply: %+v", cfg.Catalog)
	}
	if cfg.Admin.APIKey != "secret" || cfg.AWS.Region != "eu-west-1" {
		t.Fatalf("expected admin/aws overrides to apply")
	}
	if !cfg.PubSubEnabled() || !cfg.PublishEnabled() {
		t.Fatalf("expected pubsub subscribe and publish to be enabled")
	}
	if cfg.Logging.Development {
		t.Fatalf("explicit logging.development=false must win over app.debug")
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected debug level, got %q", cfg.Logging.Level)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NOTFOUND_SERVER_PORT", "7070")
	t.Setenv("NOTFOUND_CATALOG_SOURCE", "s3://bucket/reasons.yaml")
	t.Setenv("NOTFOUND_APP_DEBUG", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Fatalf("expected port 7070, got %d", cfg.Server.Port)
	}
	if cfg.Catalog.Source != "s3://bucket/reasons.yaml" {
		t.Fatalf("expected env catalog source, got %q", cfg.Catalog.Source)
	}
	if !cfg.Logging.Development {
		t.Fatalf("expected development logging to follow app.debug")
	}
}

func TestLoadLegacyEnvNames(t *testing.T) {
	t.Setenv("PORT", "8123")
	t.Setenv("HOST", "localhost")
	t.Setenv("REASONS_FILE", "/srv/reasons.json")
	t.Setenv("APP_NAME", "legacy-404")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr() != "localhost:8123" {
		t.Fatalf("expected localhost:8123, got %s", cfg.Addr())
	}
	if cfg.Catalog.Source != "/srv/reasons.json" {
		t.Fatalf("expected legacy catalog source, got %q", cfg.Catalog.Source)
	}
	if cfg.App.Name != "legacy-404" {
		t.Fatalf("expected legacy app name, got %q", cfg.App.Name)
	}
}

func TestLoadPrefixedEnvBeatsLegacy(t *testing.T) {
	t.Setenv("PORT", "8123")
	t.Setenv("NOTFOUND_SERVER_PORT", "9000")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Fatalf("expected prefixed env to win, got %d", cfg.Server.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Fatalf("expected read config error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Config{
		App:     AppConfig{Name: "svc"},
		Server:  ServerConfig{Port: 8000, APIPrefix: "/api"},
		Catalog: CatalogConfig{Source: "data/reasons.json", LoadTimeoutSeconds: 1},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	tests := map[string]func(*Config){
		"app.name":                     func(c *Config) { c.App.Name = " " },
		"server.port":                  func(c *Config) { c.Server.Port = 70000 },
		"server.api_prefix":            func(c *Config) { c.Server.APIPrefix = "api" },
		"catalog.source":               func(c *Config) { c.Catalog.Source = "" },
		"catalog.load_timeout_seconds": func(c *Config) { c.Catalog.LoadTimeoutSeconds = 0 },
		"admin.reload_per_minute":      func(c *Config) { c.Admin.ReloadPerMinute = -1 },
		"pubsub.subscription":          func(c *Config) { c.PubSub.Subscription = "sub" },
		"pubsub.topic":                 func(c *Config) { c.PubSub.Topic = "topic" },
	}
	for want, mutate := range tests {
		cfg := valid
		mutate(&cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error mentioning %s, got %v", want, err)
		}
	}
}
