package webhook

import (
	"log/slog"
	"slices"
)

// Defaults used when the corresponding Config field is empty.
const (
	DefaultEndpointPath    = "/webhook"
	DefaultOriginHeader    = "X-Forwarded-For"
	DefaultSignatureHeader = "X-Signature"
)

// DefaultAllowedOrigins returns the source addresses Tebex publishes for
// webhook delivery. Callers can override them through Config.AllowedOrigins.
func DefaultAllowedOrigins() []string {
	return []string{"18.209.80.3", "54.87.231.232"}
}

// Config is the gateway configuration. It is copied by New and not read
// again afterwards.
type Config struct {
	// Secret is the webhook secret from the Tebex creator panel.
	Secret []byte
	// AllowedOrigins lists IP literals compared by exact string match.
	// Nil selects DefaultAllowedOrigins.
	AllowedOrigins []string
	// EndpointPath is informational for the HTTP layer that mounts the gateway.
	EndpointPath string
}

// LogValue implements slog.LogValuer so the secret never reaches a log sink.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("secret", redact(c.Secret)),
		slog.Any("allowed_origins", c.AllowedOrigins),
		slog.String("endpoint_path", c.EndpointPath),
	)
}

func (c Config) withDefaults() Config {
	out := Config{
		Secret:         slices.Clone(c.Secret),
		AllowedOrigins: slices.Clone(c.AllowedOrigins),
		EndpointPath:   c.EndpointPath,
	}
	if out.AllowedOrigins == nil {
		out.AllowedOrigins = DefaultAllowedOrigins()
	}
	if out.EndpointPath == "" {
		out.EndpointPath = DefaultEndpointPath
	}
	return out
}

func redact(secret []byte) string {
	if len(secret) == 0 {
		return ""
	}
	return "***"
}
