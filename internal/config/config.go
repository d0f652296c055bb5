// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Admin   AdminConfig   `mapstructure:"admin"`
	AWS     AWSConfig     `mapstructure:"aws"`
	PubSub  PubSubConfig  `mapstructure:"pubsub"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// AppConfig names the service.
type AppConfig struct {
	Name  string `mapstructure:"name"`
	Debug bool   `mapstructure:"debug"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Host                     string `mapstructure:"host"`
	Port                     int    `mapstructure:"port"`
	APIPrefix                string `mapstructure:"api_prefix"`
	ReadHeaderTimeoutSeconds int    `mapstructure:"read_header_timeout_seconds"`
	ShutdownTimeoutSeconds   int    `mapstructure:"shutdown_timeout_seconds"`
}

// CatalogConfig points at the reason catalog.
type CatalogConfig struct {
	// Source is a file path or a file://, gs://, s3://, postgres://, or memory:// URI.
	Source             string `mapstructure:"source"`
	Table              string `mapstructure:"table"`
	LoadTimeoutSeconds int    `mapstructure:"load_timeout_seconds"`
}

// AdminConfig guards operator endpoints. An empty APIKey disables them.
type AdminConfig struct {
	APIKey          string `mapstructure:"api_key"`
	ReloadPerMinute int    `mapstructure:"reload_per_minute"`
	ReloadBurst     int    `mapstructure:"reload_burst"`
}

// AWSConfig tunes the S3 client used for s3:// catalog sources.
type AWSConfig struct {
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
}

// PubSubConfig enables cache invalidation messages. Subscription receives them; Topic, when set,
// announces reloads triggered through the admin endpoint.
type PubSubConfig struct {
	ProjectID    string `mapstructure:"project_id"`
	Subscription string `mapstructure:"subscription"`
	Topic        string `mapstructure:"topic"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// legacyEnv maps keys to the unprefixed variable names the service has always honoured.
var legacyEnv = map[string]string{
	"app.name":       "APP_NAME",
	"app.debug":      "DEBUG",
	"server.host":    "HOST",
	"server.port":    "PORT",
	"catalog.source": "REASONS_FILE",
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NOTFOUND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	for key, legacy := range legacyEnv {
		prefixed := "NOTFOUND_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	// No default: when unset it follows app.debug.
	if err := v.BindEnv("logging.development"); err != nil {
		return Config{}, fmt.Errorf("bind env logging.development: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if !v.IsSet("logging.development") {
		cfg.Logging.Development = cfg.App.Debug
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "404-as-a-Service")
	v.SetDefault("app.debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.api_prefix", "/api")
	v.SetDefault("server.read_header_timeout_seconds", 5)
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("catalog.source", "data/reasons.json")
	v.SetDefault("catalog.table", "reasons")
	v.SetDefault("catalog.load_timeout_seconds", 10)
	v.SetDefault("admin.api_key", "")
	v.SetDefault("admin.reload_per_minute", 6)
	v.SetDefault("admin.reload_burst", 2)
	v.SetDefault("aws.region", "")
	v.SetDefault("aws.endpoint", "")
	v.SetDefault("pubsub.project_id", "")
	v.SetDefault("pubsub.subscription", "")
	v.SetDefault("pubsub.topic", "")
	v.SetDefault("logging.level", "info")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if strings.TrimSpace(c.App.Name) == "" {
		return fmt.Errorf("app.name must be set")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.APIPrefix != "" && !strings.HasPrefix(c.Server.APIPrefix, "/") {
		return fmt.Errorf("server.api_prefix must start with /")
	}
	if strings.TrimSpace(c.Catalog.Source) == "" {
		return fmt.Errorf("catalog.source must be set")
	}
	if c.Catalog.LoadTimeoutSeconds <= 0 {
		return fmt.Errorf("catalog.load_timeout_seconds must be > 0")
	}
	if c.Admin.ReloadPerMinute < 0 {
		return fmt.Errorf("admin.reload_per_minute must be >= 0")
	}
	if c.PubSub.Subscription != "" && c.PubSub.ProjectID == "" {
		return fmt.Errorf("pubsub.subscription requires pubsub.project_id")
	}
	if c.PubSub.Topic != "" && c.PubSub.ProjectID == "" {
		return fmt.Errorf("pubsub.topic requires pubsub.project_id")
	}
	return nil
}

// Addr is the host:port the HTTP server listens on.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// LoadTimeout bounds a single catalog fetch.
func (c Config) LoadTimeout() time.Duration {
	return time.Duration(c.Catalog.LoadTimeoutSeconds) * time.Second
}

// ReadHeaderTimeout is the http.Server ReadHeaderTimeout.
func (c Config) ReadHeaderTimeout() time.Duration {
	return time.Duration(c.Server.ReadHeaderTimeoutSeconds) * time.Second
}

// ShutdownTimeout bounds graceful shutdown.
func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}

// PubSubEnabled reports whether the invalidation subscriber should run.
func (c Config) PubSubEnabled() bool {
	return c.PubSub.ProjectID != "" && c.PubSub.Subscription != ""
}

// PublishEnabled reports whether admin reloads are announced on a topic.
func (c Config) PublishEnabled() bool {
	return c.PubSub.ProjectID != "" && c.PubSub.Topic != ""
}
