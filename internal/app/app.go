package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/compsolve/internal/ctxlog"
	"github.com/specialistvlad/compsolve/internal/resolver"
	"github.com/specialistvlad/compsolve/internal/version"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	resolver   *resolver.Resolver
	registry   *prometheus.Registry
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Plans are written to
// outW and logs to logW. It returns a fully initialized App instance with its
// own isolated logger and metrics registry.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	policy, err := version.ParsePolicy(cfg.Policy)
	if err != nil {
		// Config is validated by NewConfig, so this is a programmer error.
		panic(fmt.Errorf("invalid configuration: %w", err))
	}

	reg := prometheus.NewRegistry()
	res := resolver.New(
		resolver.WithPolicy(policy),
		resolver.WithBudget(cfg.SearchBudget),
		resolver.WithMetrics(resolver.NewMetrics(reg)),
	)
	logger.Debug("Resolver configured.", "policy", policy.Name(), "search_budget", cfg.SearchBudget)

	return &App{
		ctx:      ctxlog.WithLogger(context.Background(), logger),
		outW:     outW,
		logger:   logger,
		config:   cfg,
		resolver: res,
		registry: reg,
	}
}

// Registry returns the application's metrics registry. This is primarily for testing.
func (app *App) Registry() *prometheus.Registry {
	return app.registry
}
