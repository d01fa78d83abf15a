// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies (logging, lifecycle, model gateway) that the
// triage system requires, for both the HTTP service and the operator CLI.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/mediflow/internal/config"
	"github.com/JaimeStill/mediflow/internal/gateway"
	"github.com/JaimeStill/mediflow/pkg/lifecycle"
)

// Infrastructure holds the core systems required by all modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Gateway   *gateway.Gateway
}

// New creates an Infrastructure from the application configuration, logging
// to stderr. It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithOutput(cfg, os.Stderr, nil)
}

// NewWithOutput is New with an explicit log destination and gateway options.
func NewWithOutput(cfg *config.Config, out io.Writer, opts *gateway.Options) (*Infrastructure, error) {
	logger, err := NewLogger(&cfg.Logging, out)
	if err != nil {
		return nil, fmt.Errorf("logger init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Gateway:   gateway.New(&cfg.Gateway, logger, opts),
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Gateway.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("gateway start failed: %w", err)
	}
	return nil
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg *config.LoggingConfig, out io.Writer) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	switch cfg.Format {
	case "", config.LogFormatText:
		return slog.New(slog.NewTextHandler(out, opts)), nil
	case config.LogFormatJSON:
		return slog.New(slog.NewJSONHandler(out, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q", cfg.Format)
	}
}
