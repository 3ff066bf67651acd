// Package runner fans out classification and synthesis over a batch of
// candidate bundles. Each candidate's inputs are disjoint, so the calls
// run in parallel; cancellation abandons the remaining candidates while
// already-computed results are retained.
package runner

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kimbidav/weekly-slack-recon/internal/bundle"
	"github.com/kimbidav/weekly-slack-recon/internal/classify"
	"github.com/kimbidav/weekly-slack-recon/internal/followup"
	"github.com/kimbidav/weekly-slack-recon/internal/logging"
	"github.com/kimbidav/weekly-slack-recon/internal/signal"
	"github.com/kimbidav/weekly-slack-recon/internal/store"
	"github.com/kimbidav/weekly-slack-recon/internal/synth"
)

// Result is the full engine output for one candidate.
type Result struct {
	CandidateID string `json:"candidate_id"`
	// Classification is nil when the bundle had no parent chat message.
	Classification *classify.Result `json:"classification,omitempty"`
	NeedsFollowup  bool             `json:"needs_followup"`
	Synthesis      signal.Synthesis `json:"synthesis"`
}

// Runner drives one batch.
type Runner struct {
	Synth  *synth.Synthesizer
	Rules  signal.Rules
	Policy followup.Policy
	// Ledger is optional; when set, every synthesis is recorded.
	Ledger *store.Ledger
	// Parallelism bounds concurrent candidates; <=0 means 4.
	Parallelism int
}

// Run processes every candidate. On cancellation it returns the results
// computed so far along with the context error.
func (r *Runner) Run(ctx context.Context, candidates []bundle.Candidate, now time.Time) ([]Result, error) {
	log := logging.Get(logging.CategoryRunner)

	limit := r.Parallelism
	if limit <= 0 {
		limit = 4
	}

	results := make([]*Result, len(candidates))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, cand := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := r.one(gctx, cand, now)
			mu.Lock()
			results[i] = &res
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()

	out := make([]Result, 0, len(candidates))
	for _, res := range results {
		if res != nil {
			out = append(out, *res)
		}
	}
	log.Info("batch complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("completed", len(out)))
	return out, err
}

func (r *Runner) one(ctx context.Context, cand bundle.Candidate, now time.Time) Result {
	log := logging.Get(logging.CategoryRunner)

	res := Result{CandidateID: cand.ID}

	if cand.Parent != nil {
		cls := classify.Classify(r.Rules, *cand.Parent, cand.Replies, now)
		res.Classification = &cls
		res.NeedsFollowup = r.Policy.Needed(cls.NoParentReactions, cls.Status,
			cls.DaysSinceSubmission, cls.DaysSinceActivity)
	}

	res.Synthesis = r.Synth.Run(ctx, cand.Input)

	if r.Ledger != nil {
		if _, err := r.Ledger.RecordSynthesis(res.Synthesis, now); err != nil {
			log.Warn("failed to persist synthesis",
				zap.String("candidate", cand.ID),
				zap.Error(err))
		}
	}
	return res
}
