package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/bridgeloader/internal/config"
	"github.com/specialistvlad/bridgeloader/internal/ctxlog"
	"github.com/specialistvlad/bridgeloader/internal/entrypoint"
	"github.com/specialistvlad/bridgeloader/internal/handlers"
	"github.com/specialistvlad/bridgeloader/internal/mapping"
	"github.com/specialistvlad/bridgeloader/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *config.Model
	symbols    *handlers.Handlers
	registry   *registry.Registry
	dispatcher *entrypoint.Dispatcher
	mappings   *mapping.Provider
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and registry. Any
// error is fatal: no part of a failed App is usable.
func NewApp(ctx context.Context, outW io.Writer, appConfig *Config, loader config.Loader, modules ...handlers.Module) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	model := config.Defaults()
	if appConfig.ConfigPath != "" {
		var err error
		model, err = loader.Load(ctx, appConfig.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	}
	logger.Debug("Configuration loaded.", "origins", len(model.Origins))

	symbols := handlers.New()
	if len(modules) == 0 {
		modules = coreModules(outW)
	}
	for _, mod := range modules {
		mod.Register(symbols)
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "symbols", len(symbols.Names()))

	reg := registry.New()
	if err := loadComponents(ctx, model, reg); err != nil {
		return nil, fmt.Errorf("failed to load components: %w", err)
	}

	dispatcher, err := entrypoint.New(ctx, reg.All(), symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to set up entrypoints: %w", err)
	}

	mappings, err := newMappingProvider(ctx, model.Mappings)
	if err != nil {
		return nil, fmt.Errorf("failed to set up mappings: %w", err)
	}

	logger.Info("Loader ready.", "components", reg.Len(), "entrypoint_keys", len(dispatcher.Keys()))
	return &App{
		ctx:        ctx,
		outW:       outW,
		logger:     logger,
		config:     model,
		symbols:    symbols,
		registry:   reg,
		dispatcher: dispatcher,
		mappings:   mappings,
	}, nil
}

// Context returns the application context carrying its logger.
func (a *App) Context() context.Context { return a.ctx }

// Registry returns the application's component registry.
func (a *App) Registry() *registry.Registry { return a.registry }

// Dispatcher returns the application's entrypoint dispatcher.
func (a *App) Dispatcher() *entrypoint.Dispatcher { return a.dispatcher }

// Mappings returns the lazily loaded mapping provider.
func (a *App) Mappings() *mapping.Provider { return a.mappings }

// Resolver returns the mapping resolver, loading it on first use.
func (a *App) Resolver() (*mapping.Resolver, error) {
	return a.mappings.Resolver(a.ctx)
}
