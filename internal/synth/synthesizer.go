package synth

import (
	"context"

	"go.uber.org/zap"

	"github.com/kimbidav/weekly-slack-recon/internal/reasoning"
	"github.com/kimbidav/weekly-slack-recon/internal/signal"
)

// Synthesizer composes the two strategies: generative when a backend is
// configured, deterministic otherwise and as the recovery path. Run
// always yields a valid Synthesis and never propagates a backend failure
// to the caller.
type Synthesizer struct {
	primary  Strategy
	fallback Deterministic
	log      *zap.Logger
}

// New builds a synthesizer. backend may be nil, in which case only the
// deterministic strategy runs. log may be nil.
func New(rules signal.Rules, backend reasoning.Backend, log *zap.Logger) *Synthesizer {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Synthesizer{
		fallback: Deterministic{Rules: rules},
		log:      log,
	}
	if backend != nil {
		s.primary = Generative{Backend: backend}
	}
	return s
}

// Run synthesizes one candidate's status.
func (s *Synthesizer) Run(ctx context.Context, in Input) signal.Synthesis {
	if s.primary != nil {
		out, err := s.primary.Synthesize(ctx, in)
		if err == nil {
			return out
		}
		s.log.Warn("generative synthesis failed, falling back",
			zap.String("candidate", in.CandidateID),
			zap.Error(err))
	}
	out, _ := s.fallback.Synthesize(ctx, in)
	return out
}
