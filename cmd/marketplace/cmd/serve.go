package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"marketplace-web/internal/app"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		svc, err := app.InitializeService(cfg, logger)
		if err != nil {
			logger.Fatal("startup failed", zap.Error(err))
		}
		defer svc.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := svc.Run(ctx); err != nil {
			logger.Error("server stopped with error", zap.Error(err))
			return err
		}
		logger.Info("server exited gracefully")
		return nil
	},
}
