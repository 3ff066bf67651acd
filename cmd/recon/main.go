// recon reconciles weak recruiting-pipeline signals (chat reactions,
// emails, calendar events, tracking records) into canonical candidate
// statuses and prioritized one-liner summaries.
//
// Evidence arrives as JSON bundle files produced by upstream collaborators;
// recon never talks to Slack, Gmail or Calendar itself.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kimbidav/weekly-slack-recon/internal/config"
	"github.com/kimbidav/weekly-slack-recon/internal/logging"
)

var (
	cfgPath string
	verbose bool

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "recon",
	Short: "recruiting pipeline status reconciliation",
	Long: `recon infers canonical candidate statuses from submission threads and
synthesizes per-candidate status one-liners from tracking, calendar, email
and chat evidence.

Evidence is supplied as JSON bundle files; results are emitted as JSON
lines and optionally recorded in a SQLite ledger.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		if err := logging.Init(level, cfg.Logging.JSON); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "recon.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
