package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/upb/casting-agency/app"
	"github.com/upb/casting-agency/routes"
	"go.uber.org/zap"
)

var port int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port > 0 {
			cfg.Server.Port = port
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		deps, err := app.NewDependencies(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize dependencies: %w", err)
		}
		defer func() {
			if err := deps.Close(context.Background()); err != nil {
				logger.Error("failed to close dependencies", zap.Error(err))
			}
		}()

		srv := &http.Server{
			Addr:         cfg.Server.Address(),
			Handler:      routes.SetupRoutes(deps),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("server listening",
				zap.String("addr", srv.Addr),
				zap.String("environment", cfg.Environment))
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("shutting down gracefully", zap.Duration("timeout", cfg.Server.ShutdownTimeout))

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				_ = srv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}

			logger.Info("server stopped")
			return nil
		}
	},
}

func init() {
	serveCmd.Flags().IntVar(&port, "port", 0, "Listen port (env: PORT, SERVER_PORT)")
	rootCmd.AddCommand(serveCmd)
}
