package cmd

import (
	"fmt"
	"os"

	"marketplace-web/internal/config"
	"marketplace-web/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "marketplace",
	Short: "Service marketplace web front",
	Long: `marketplace serves the storefront, technician portal and admin panel behind
a session-checked route guard, and manages sessions from the command line.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(routesCmd)
}

// loadRuntime reads the dotenv file, the environment and builds the logger.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	if err := godotenv.Load(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s not loaded, using environment variables\n", envFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, logger, nil
}
