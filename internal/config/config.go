package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/youmna-rabie/tebex-gateway/pkg/webhook"
	"gopkg.in/yaml.v3"
)

// Config is the top-level gateway configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Webhook     WebhookConfig     `yaml:"webhook"`
	Store       StoreConfig       `yaml:"store"`
	Logging     LoggingConfig     `yaml:"logging"`
	Subscribers SubscribersConfig `yaml:"subscribers"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// WebhookConfig holds the Tebex endpoint settings.
type WebhookConfig struct {
	Secret          string   `yaml:"secret"`
	Endpoint        string   `yaml:"endpoint"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	OriginHeader    string   `yaml:"origin_header"`
	SignatureHeader string   `yaml:"signature_header"`
	// DisableServer keeps `run` from opening a listener; the pipeline is then
	// only reachable through `process` or the library.
	DisableServer bool  `yaml:"disable_server"`
	MaxBodyBytes  int64 `yaml:"max_body_bytes"`
}

// StoreConfig holds delivery log settings.
type StoreConfig struct {
	Capacity int `yaml:"capacity"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SubscribersConfig toggles the built-in subscribers.
type SubscribersConfig struct {
	LogEvents bool `yaml:"log_events"`
}

// Gateway converts the webhook section into a library config.
func (c *Config) Gateway() webhook.Config {
	return webhook.Config{
		Secret:         []byte(c.Webhook.Secret),
		AllowedOrigins: c.Webhook.AllowedOrigins,
		EndpointPath:   c.Webhook.Endpoint,
	}
}

// defaults applies sane defaults to zero-valued fields.
func (c *Config) defaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Webhook.Endpoint == "" {
		c.Webhook.Endpoint = webhook.DefaultEndpointPath
	}
	if c.Webhook.AllowedOrigins == nil {
		c.Webhook.AllowedOrigins = webhook.DefaultAllowedOrigins()
	}
	if c.Webhook.OriginHeader == "" {
		c.Webhook.OriginHeader = webhook.DefaultOriginHeader
	}
	if c.Webhook.SignatureHeader == "" {
		c.Webhook.SignatureHeader = webhook.DefaultSignatureHeader
	}
	if c.Webhook.MaxBodyBytes == 0 {
		c.Webhook.MaxBodyBytes = 1 << 20
	}
	if c.Store.Capacity == 0 {
		c.Store.Capacity = 1000
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// validate checks required fields and value constraints.
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Webhook.Secret == "" {
		return fmt.Errorf("webhook.secret is required")
	}
	if !strings.HasPrefix(c.Webhook.Endpoint, "/") {
		return fmt.Errorf("webhook.endpoint must start with /, got %q", c.Webhook.Endpoint)
	}
	for i, o := range c.Webhook.AllowedOrigins {
		if strings.TrimSpace(o) == "" {
			return fmt.Errorf("webhook.allowed_origins[%d] is empty", i)
		}
	}
	if c.Webhook.MaxBodyBytes < 0 {
		return fmt.Errorf("webhook.max_body_bytes must be non-negative")
	}
	if c.Store.Capacity < 0 {
		return fmt.Errorf("store.capacity must be non-negative")
	}
	return nil
}

// expandEnv replaces ${VAR} references in secret-bearing fields with
// environment variable values. This allows keeping secrets out of YAML.
func (c *Config) expandEnv() {
	c.Webhook.Secret = os.ExpandEnv(c.Webhook.Secret)
}

// Load reads a YAML config file, applies defaults, expands env vars, and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.defaults()
	cfg.expandEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}
