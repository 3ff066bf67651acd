package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kimbidav/weekly-slack-recon/internal/bundle"
	"github.com/kimbidav/weekly-slack-recon/internal/classify"
	"github.com/kimbidav/weekly-slack-recon/internal/followup"
	"github.com/kimbidav/weekly-slack-recon/internal/signal"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [bundle.json]",
	Short: "Classify one submission thread",
	Long: `Applies the precedence rules to the chat thread in a single bundle and
prints the canonical status, reason, activity timestamps and follow-up
verdict as JSON. No synthesis, no ledger writes.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	now := time.Now().UTC()
	rules := signal.DefaultRules()

	cand, err := bundle.Load(args[0], rules, now)
	if err != nil {
		return err
	}
	if cand.Parent == nil {
		return fmt.Errorf("bundle %s has no parent thread message", args[0])
	}

	result := classify.Classify(rules, *cand.Parent, cand.Replies, now)
	policy := followup.Policy{
		UnclearAfterDays:  cfg.Thresholds.UnclearFollowupDays,
		InactiveAfterDays: cfg.Thresholds.InactivityDays,
	}

	out := struct {
		CandidateID   string          `json:"candidate_id"`
		Result        classify.Result `json:"classification"`
		NeedsFollowup bool            `json:"needs_followup"`
	}{
		CandidateID: cand.ID,
		Result:      result,
		NeedsFollowup: policy.Needed(result.NoParentReactions, result.Status,
			result.DaysSinceSubmission, result.DaysSinceActivity),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
