package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Run starts the metrics server, the guild module and the watermill router.
// It blocks until ctx is canceled or the router stops.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger

	if app.metricsServer != nil {
		go func() {
			logger.Info("Starting metrics server", "address", app.metricsServer.Addr)
			if err := app.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", "error", err)
			}
		}()
	}

	app.wg.Add(1)
	go app.GuildModule.Run(ctx, &app.wg)

	if err := app.Router.Run(ctx); err != nil {
		return fmt.Errorf("watermill router stopped: %w", err)
	}
	return nil
}
