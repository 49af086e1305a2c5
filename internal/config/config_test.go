package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_ValidFull(t *testing.T) {
	yaml := `
server:
  host: "127.0.0.1"
  port: 9090
webhook:
  secret: "whsec"
  endpoint: "/hooks/tebex"
  allowed_origins:
    - "10.0.0.1"
    - "10.0.0.2"
  origin_header: "X-Real-IP"
  signature_header: "X-Tebex-Signature"
  disable_server: true
  max_body_bytes: 2048
store:
  capacity: 5000
logging:
  level: debug
  format: text
subscribers:
  log_events: true
`
	cfg, err := Load(writeTemp(t, yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Server
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}

	// Webhook
	if cfg.Webhook.Secret != "whsec" {
		t.Errorf("webhook.secret = %q, want %q", cfg.Webhook.Secret, "whsec")
	}
	if cfg.Webhook.Endpoint != "/hooks/tebex" {
		t.Errorf("webhook.endpoint = %q, want %q", cfg.Webhook.Endpoint, "/hooks/tebex")
	}
	if !reflect.DeepEqual(cfg.Webhook.AllowedOrigins, []string{"10.0.0.1", "10.0.0.2"}) {
		t.Errorf("webhook.allowed_origins = %v", cfg.Webhook.AllowedOrigins)
	}
	if cfg.Webhook.OriginHeader != "X-Real-IP" {
		t.Errorf("webhook.origin_header = %q, want %q", cfg.Webhook.OriginHeader, "X-Real-IP")
	}
	if cfg.Webhook.SignatureHeader != "X-Tebex-Signature" {
		t.Errorf("webhook.signature_header = %q, want %q", cfg.Webhook.SignatureHeader, "X-Tebex-Signature")
	}
	if !cfg.Webhook.DisableServer {
		t.Error("webhook.disable_server = false, want true")
	}
	if cfg.Webhook.MaxBodyBytes != 2048 {
		t.Errorf("webhook.max_body_bytes = %d, want %d", cfg.Webhook.MaxBodyBytes, 2048)
	}

	// Store
	if cfg.Store.Capacity != 5000 {
		t.Errorf("store.capacity = %d, want %d", cfg.Store.Capacity, 5000)
	}

	// Logging
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("logging.format = %q, want %q", cfg.Logging.Format, "text")
	}

	if !cfg.Subscribers.LogEvents {
		t.Error("subscribers.log_events = false, want true")
	}
}

func TestLoad_Defaults(t *testing.T) {
	// Only the secret is required; everything else gets defaults.
	cfg, err := Load(writeTemp(t, "webhook:\n  secret: s\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("default server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default server.port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Webhook.Endpoint != "/webhook" {
		t.Errorf("default webhook.endpoint = %q, want %q", cfg.Webhook.Endpoint, "/webhook")
	}
	if !reflect.DeepEqual(cfg.Webhook.AllowedOrigins, []string{"18.209.80.3", "54.87.231.232"}) {
		t.Errorf("default webhook.allowed_origins = %v", cfg.Webhook.AllowedOrigins)
	}
	if cfg.Webhook.OriginHeader != "X-Forwarded-For" {
		t.Errorf("default webhook.origin_header = %q", cfg.Webhook.OriginHeader)
	}
	if cfg.Webhook.SignatureHeader != "X-Signature" {
		t.Errorf("default webhook.signature_header = %q", cfg.Webhook.SignatureHeader)
	}
	if cfg.Webhook.DisableServer {
		t.Error("default webhook.disable_server = true, want false")
	}
	if cfg.Webhook.MaxBodyBytes != 1<<20 {
		t.Errorf("default webhook.max_body_bytes = %d, want %d", cfg.Webhook.MaxBodyBytes, 1<<20)
	}
	if cfg.Store.Capacity != 1000 {
		t.Errorf("default store.capacity = %d, want %d", cfg.Store.Capacity, 1000)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default logging.level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("default logging.format = %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoad_EmptyOriginListKept(t *testing.T) {
	cfg, err := Load(writeTemp(t, "webhook:\n  secret: s\n  allowed_origins: []\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Webhook.AllowedOrigins == nil || len(cfg.Webhook.AllowedOrigins) != 0 {
		t.Errorf("explicit empty allow-list should stay empty, got %v", cfg.Webhook.AllowedOrigins)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeTemp(t, "{{{{not yaml"))
	if err == nil {
		t.Fatal("expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing secret", "{}", "webhook.secret"},
		{"bad port", "server:\n  port: 99999\nwebhook:\n  secret: s\n", "server.port"},
		{"relative endpoint", "webhook:\n  secret: s\n  endpoint: webhook\n", "webhook.endpoint"},
		{"blank origin", "webhook:\n  secret: s\n  allowed_origins: [\"1.2.3.4\", \" \"]\n", "allowed_origins[1]"},
		{"negative body limit", "webhook:\n  secret: s\n  max_body_bytes: -1\n", "max_body_bytes"},
		{"negative capacity", "webhook:\n  secret: s\nstore:\n  capacity: -5\n", "store.capacity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTemp(t, tt.yaml))
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_TEBEX_SECRET", "whsec-from-env")

	yaml := `
webhook:
  secret: "${TEST_TEBEX_SECRET}"
`
	cfg, err := Load(writeTemp(t, yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Webhook.Secret != "whsec-from-env" {
		t.Errorf("webhook.secret = %q, want %q", cfg.Webhook.Secret, "whsec-from-env")
	}
}

func TestLoad_EnvVarUnsetFailsValidation(t *testing.T) {
	_, err := Load(writeTemp(t, "webhook:\n  secret: \"${TEST_TEBEX_SECRET_UNSET}\"\n"))
	if err == nil {
		t.Fatal("expected error when the secret expands to empty")
	}
}

func TestGatewayConfig(t *testing.T) {
	cfg, err := Load(writeTemp(t, "webhook:\n  secret: abc\n  endpoint: /tebex\n  allowed_origins: [\"10.1.1.1\"]\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gc := cfg.Gateway()
	if string(gc.Secret) != "abc" {
		t.Errorf("secret = %q, want %q", gc.Secret, "abc")
	}
	if gc.EndpointPath != "/tebex" {
		t.Errorf("endpoint = %q, want %q", gc.EndpointPath, "/tebex")
	}
	if !reflect.DeepEqual(gc.AllowedOrigins, []string{"10.1.1.1"}) {
		t.Errorf("allowed origins = %v", gc.AllowedOrigins)
	}
}
