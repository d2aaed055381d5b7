package main

import (
	"context"
	"log/slog"
	"os"

	"stayops/cmd/bootstrap"
	"stayops/internal/engine"
	"stayops/internal/pkg/config"

	"go.uber.org/fx"
)

func startSweeper(lc fx.Lifecycle, sweeper *engine.Sweeper, cfg config.Config, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("starting scheduling engine", "sweep_interval", cfg.Sweep.Interval.String())
			go func() {
				defer close(done)
				sweeper.Run(ctx)
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			logger.Info("stopping scheduling engine")
			cancel()
			<-done
			return nil
		},
	})
}

func main() {
	app := fx.New(
		bootstrap.Module,
		fx.Invoke(
			startSweeper,
		),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("failed to stop cleanly", "error", err)
	}

	slog.Info("stopped")
}
