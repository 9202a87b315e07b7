package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "draftctl",
		Short: "CLI tool for the draftboard API",
		Long: `draftctl is a CLI tool for driving a draftboard server.

It covers the whole draft: picks and undo, keepers, player flags, league
settings, auto-draft control, rankings import, availability predictions and
real-time SSE event streaming.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load token from file if not provided via flag/env
			if err := cfg.LoadToken(); err != nil {
				return err
			}

			// Create HTTP client
			client = NewClient(cfg.ServerURL, cfg.Token, cfg.Verbose)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: DRAFTCTL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Admin password (env: DRAFTCTL_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file path (env: DRAFTCTL_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newTeamsCmd())
	rootCmd.AddCommand(newPickCmd())
	rootCmd.AddCommand(newUndoCmd())
	rootCmd.AddCommand(newRestartCmd())
	rootCmd.AddCommand(newNewDraftCmd())
	rootCmd.AddCommand(newPlayersCmd())
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newKeeperCmd())
	rootCmd.AddCommand(newAutoDraftCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newStrategiesCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newPredictCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newHashPasswordCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func output(cmd *cobra.Command) *Output {
	return NewOutput(cmd.OutOrStdout(), cfg.Output)
}
