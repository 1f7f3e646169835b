package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sahone-backend/internal/auth"
	"sahone-backend/internal/database"
	"sahone-backend/internal/events"
	"sahone-backend/internal/reports"
	"sahone-backend/internal/server"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := boot()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var verifier auth.Verifier
		if cfg.FirebaseEnabled() {
			fv, err := auth.NewFirebaseVerifier(ctx, cfg)
			if err != nil {
				return err
			}
			verifier = fv
		}

		broker := events.New(ctx, cfg)
		defer broker.Close()

		if cfg.ReportDailyAt != "" {
			go reports.RunDaily(ctx, database.DB, cfg.ReportDailyAt)
		}

		app := server.New(server.Deps{Config: cfg, Verifier: verifier, Broker: broker})

		errCh := make(chan error, 1)
		go func() {
			logrus.WithField("port", cfg.HTTPPort).Info("server listening")
			errCh <- app.Listen(":" + cfg.HTTPPort)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logrus.Info("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	},
}
