package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kimbidav/weekly-slack-recon/internal/bundle"
	"github.com/kimbidav/weekly-slack-recon/internal/followup"
	"github.com/kimbidav/weekly-slack-recon/internal/logging"
	"github.com/kimbidav/weekly-slack-recon/internal/runner"
	"github.com/kimbidav/weekly-slack-recon/internal/signal"
	"github.com/kimbidav/weekly-slack-recon/internal/store"
	"github.com/kimbidav/weekly-slack-recon/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run synthesis whenever a bundle file lands in the drop directory",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logging.Get(logging.CategoryWatch)
	rules := signal.DefaultRules()

	synthesizer, err := buildSynthesizer(ctx, rules)
	if err != nil {
		return err
	}

	ledger, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer ledger.Close()

	r := &runner.Runner{
		Synth: synthesizer,
		Rules: rules,
		Policy: followup.Policy{
			UnclearAfterDays:  cfg.Thresholds.UnclearFollowupDays,
			InactiveAfterDays: cfg.Thresholds.InactivityDays,
		},
		Ledger:      ledger,
		Parallelism: 1,
	}

	if err := os.MkdirAll(cfg.Watch.Dir, 0o755); err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	w := &watch.Watcher{
		Dir:      cfg.Watch.Dir,
		Debounce: time.Duration(cfg.Watch.DebounceMS) * time.Millisecond,
		Handle: func(path string) {
			now := time.Now().UTC()
			cand, err := bundle.Load(path, rules, now)
			if err != nil {
				log.Warn("skipping bundle", zap.String("path", path), zap.Error(err))
				return
			}
			results, err := r.Run(ctx, []bundle.Candidate{cand}, now)
			if err != nil {
				log.Warn("bundle run failed", zap.String("path", path), zap.Error(err))
				return
			}
			for _, res := range results {
				if err := enc.Encode(res); err != nil {
					log.Warn("failed to write result", zap.Error(err))
				}
			}
		},
	}
	return w.Run(ctx)
}
