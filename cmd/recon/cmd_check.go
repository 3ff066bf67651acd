package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kimbidav/weekly-slack-recon/internal/bundle"
	"github.com/kimbidav/weekly-slack-recon/internal/followup"
	"github.com/kimbidav/weekly-slack-recon/internal/logging"
	"github.com/kimbidav/weekly-slack-recon/internal/reasoning"
	"github.com/kimbidav/weekly-slack-recon/internal/runner"
	"github.com/kimbidav/weekly-slack-recon/internal/signal"
	"github.com/kimbidav/weekly-slack-recon/internal/store"
	"github.com/kimbidav/weekly-slack-recon/internal/synth"
)

var (
	checkParallelism int
	checkNoLedger    bool
)

var checkCmd = &cobra.Command{
	Use:   "check [bundle.json|dir]...",
	Short: "Classify and synthesize a batch of candidate bundles",
	Long: `Loads every bundle file given (directories are scanned for *.json),
classifies each submission thread, evaluates the follow-up policy, and
synthesizes one status line per candidate. Results are printed as JSON
lines and recorded in the ledger unless --no-ledger is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().IntVar(&checkParallelism, "parallelism", 4, "concurrent candidates")
	checkCmd.Flags().BoolVar(&checkNoLedger, "no-ledger", false, "skip ledger persistence")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	now := time.Now().UTC()
	rules := signal.DefaultRules()

	candidates, err := loadCandidates(args, rules, now)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return fmt.Errorf("no bundle files found")
	}

	synthesizer, err := buildSynthesizer(ctx, rules)
	if err != nil {
		return err
	}

	r := &runner.Runner{
		Synth: synthesizer,
		Rules: rules,
		Policy: followup.Policy{
			UnclearAfterDays:  cfg.Thresholds.UnclearFollowupDays,
			InactiveAfterDays: cfg.Thresholds.InactivityDays,
		},
		Parallelism: checkParallelism,
	}

	if !checkNoLedger {
		ledger, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer ledger.Close()
		r.Ledger = ledger
	}

	results, runErr := r.Run(ctx, candidates, now)

	enc := json.NewEncoder(os.Stdout)
	for _, res := range results {
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}
	return runErr
}

// loadCandidates expands file and directory arguments into bundles.
func loadCandidates(args []string, rules signal.Rules, now time.Time) ([]bundle.Candidate, error) {
	var candidates []bundle.Candidate
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot stat %s: %w", arg, err)
		}
		if info.IsDir() {
			loaded, err := bundle.LoadDir(arg, rules, now)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, loaded...)
			continue
		}
		cand, err := bundle.Load(arg, rules, now)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

// buildSynthesizer wires the reasoning backend when one is configured.
// Backend construction failure degrades to deterministic-only synthesis
// rather than failing the run.
func buildSynthesizer(ctx context.Context, rules signal.Rules) (*synth.Synthesizer, error) {
	log := logging.Get(logging.CategoryBackend)

	var backend reasoning.Backend
	if cfg.BackendEnabled() {
		timeout, err := cfg.Backend.TimeoutDuration()
		if err != nil {
			return nil, err
		}
		genai, err := reasoning.NewGenAI(ctx, cfg.Backend.APIKey, cfg.Backend.Model, timeout)
		if err != nil {
			log.Warn("reasoning backend unavailable, using deterministic synthesis only",
				zap.Error(err))
		} else {
			backend = genai
		}
	}
	return synth.New(rules, backend, logging.Get(logging.CategorySynth)), nil
}
