package app

import (
	"context"
	"errors"
	"time"
)

// Close gracefully stops the application. The guild module drains whatever
// hook calls it already accepted before returning.
func (app *App) Close(ctx context.Context) error {
	logger := app.Observability.Logger
	logger.Info("Shutting down application")

	var errs []error

	if err := app.GuildModule.Close(); err != nil {
		errs = append(errs, err)
	}
	app.wg.Wait()

	if err := app.EventBus.Close(); err != nil {
		logger.Error("Error closing event bus", "error", err)
		errs = append(errs, err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if app.metricsServer != nil {
		if err := app.metricsServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}

	// Spans are flushed last.
	if err := app.Observability.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error flushing traces", "error", err)
		errs = append(errs, err)
	}

	logger.Info("Application shut down")
	return errors.Join(errs...)
}
