package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"carbooking/cmd/bootstrap"
	"carbooking/internal/pkg/config"
	"carbooking/internal/pkg/errs"
	"carbooking/internal/usecase/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

// The sweeper is the external scheduler for the expiry sweep: it periodically
// collapses logically expired reservations to CANCELLED. The sweep itself is
// idempotent, so overlapping runs are harmless.
func startSweeper(lc fx.Lifecycle, cmds commands.BookingCommands, cfg config.Config, logger *slog.Logger) error {
	c := cron.New()

	_, err := c.AddFunc(cfg.Sweep.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		count, err := cmds.CancelExpiredBookings(ctx)
		if err != nil {
			logger.Error("expiry sweep failed", "error", err, "stack", errs.ExtractStackLines(err, 5))
			return
		}
		logger.Debug("expiry sweep completed", "cancelled", count)
	})
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("starting expiry sweeper", "schedule", cfg.Sweep.Schedule)
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping expiry sweeper")
			select {
			case <-c.Stop().Done():
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})

	return nil
}

func main() {
	app := fx.New(
		bootstrap.Module,
		fx.Invoke(startSweeper),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("failed to start sweeper", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("failed to stop sweeper cleanly", "error", err)
	}
}
