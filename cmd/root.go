package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/educloud-dashboard/internal/config"
)

var (
	// Shared state set during PersistentPreRunE
	cfg        *config.Config
	slogLogger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "educloud",
	Short: "EduCloud multi-tenant school dashboard",
	Long: `EduCloud serves the role-based school dashboard: sign-in, role guarded
pages, navigation menus and tenant subscription management.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}

		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		slogLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.LogLevel,
		}))
		slog.SetDefault(slogLogger)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// RootCmd returns the root cobra.Command for testing purposes.
func RootCmd() *cobra.Command {
	return rootCmd
}
