package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/upb/casting-agency/config"
	"github.com/upb/casting-agency/internal/observability"
	"go.uber.org/zap"
)

var (
	cfg    *config.Config
	logger *zap.Logger

	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "casting-api",
	Short: "Casting agency and coffee shop API",
	Long: `casting-api serves the actors, movies and drinks resources behind
bearer-token authorization issued by an Auth0 tenant.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.New()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if logLevel != "" {
			cfg.Observability.LogLevel = logLevel
		}

		logger, err = observability.NewLogger(cfg.Observability)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (env: LOG_LEVEL)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
