package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/bridgeloader/internal/ctxlog"
	"github.com/specialistvlad/bridgeloader/internal/entrypoint"
)

// Run invokes the initialization entrypoints of every key in order. A key
// whose pass fails stops the run; the failures of that pass are returned
// together.
func (a *App) Run(ctx context.Context, keys ...string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "keys", keys)

	for _, key := range keys {
		err := entrypoint.Invoke(ctx, a.dispatcher, key, func(in entrypoint.Initializer) error {
			return in.OnInitialize(ctx)
		})
		if err != nil {
			return fmt.Errorf("entrypoint stage %q failed: %w", key, err)
		}
		a.logger.Info("Entrypoint stage finished.", "key", key)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
