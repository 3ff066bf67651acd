package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kimbidav/weekly-slack-recon/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [candidate]",
	Short: "Show recent synthesized status lines for a candidate",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "max rows to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ledger, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer ledger.Close()

	rows, err := ledger.RecentSyntheses(args[0], historyLimit)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	for _, row := range rows {
		out := struct {
			At       time.Time `json:"at"`
			OneLiner string    `json:"one_liner"`
			Source   string    `json:"source"`
			Flagged  bool      `json:"flagged"`
		}{
			At:       row.CreatedAt,
			OneLiner: row.Synthesis.OneLiner,
			Source:   string(row.Synthesis.Source),
			Flagged:  row.Synthesis.FlagForReview,
		}
		if err := enc.Encode(out); err != nil {
			return err
		}
	}
	return nil
}
