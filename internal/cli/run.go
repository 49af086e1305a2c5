package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/youmna-rabie/tebex-gateway/internal/config"
	"github.com/youmna-rabie/tebex-gateway/internal/event"
	"github.com/youmna-rabie/tebex-gateway/internal/metrics"
	"github.com/youmna-rabie/tebex-gateway/internal/server"
	"github.com/youmna-rabie/tebex-gateway/internal/subscriber"
	"github.com/youmna-rabie/tebex-gateway/pkg/webhook"
)

// errServerDisabled is returned by run when webhook.disable_server is set.
var errServerDisabled = errors.New("server disabled by webhook.disable_server; use the process command or embed pkg/webhook")

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway HTTP server",
	RunE:  runGateway,
}

func runGateway(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Webhook.DisableServer {
		return errServerDisabled
	}

	logger := newLogger(cfg.Logging, os.Stdout)
	m := metrics.NewMetrics()

	gw, err := buildGateway(cfg, logger, webhook.WithObserver(m))
	if err != nil {
		return err
	}

	store, err := event.NewMemoryStore(cfg.Store.Capacity)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}

	srv := server.NewServer(cfg, gw, store, m.Handler(), logger)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

// buildGateway creates the gateway from cfg and registers the built-in
// subscribers it enables.
func buildGateway(cfg *config.Config, logger *slog.Logger, opts ...webhook.Option) (*webhook.Gateway, error) {
	opts = append([]webhook.Option{webhook.WithLogger(logger)}, opts...)
	gw, err := webhook.New(cfg.Gateway(), opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gateway: %w", err)
	}
	logger.Info("gateway configured", "webhook", cfg.Gateway())

	if cfg.Subscribers.LogEvents {
		sub := &subscriber.Logger{Logger: logger}
		if err := sub.Register(gw); err != nil {
			return nil, err
		}
	}
	return gw, nil
}

func newLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
