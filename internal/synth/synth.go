// Package synth merges up to four independently-sourced evidence kinds
// (tracking record, calendar events, email signals, chat thread) into a
// single prioritized status line with a confidence grade and a review
// flag.
//
// Two interchangeable strategies exist. The generative strategy delegates
// interpretation to a reasoning backend and ranks an existing tracking
// record above live calendar/email/chat signals. The deterministic
// strategy evaluates calendar, email and chat first and only falls back to
// the tracking record when those are silent. The asymmetry is deliberate;
// do not unify the orderings without product confirmation.
package synth

import (
	"context"
	"time"

	"github.com/kimbidav/weekly-slack-recon/internal/signal"
)

// ThreadMessage is one chat transcript entry as the synthesizer sees it.
type ThreadMessage struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	IsParent  bool      `json:"is_parent"`
}

// Input is the evidence bundle for one candidate. All fields except
// CandidateID and Now are optional; missing evidence degrades confidence,
// not correctness.
type Input struct {
	CandidateID string
	Tracking    *signal.TrackingRecord
	Calendar    []signal.CalendarEvent
	Emails      []signal.EmailSignal
	Thread      []ThreadMessage
	// Now anchors relative-date phrasing and upcoming/past decisions. The
	// engine never reads the clock itself.
	Now time.Time
}

// allText collects every scannable text fragment (email snippets plus chat
// message text) for the soft-pass sweep.
func (in Input) allText() []string {
	texts := make([]string, 0, len(in.Emails)+len(in.Thread))
	for _, e := range in.Emails {
		texts = append(texts, e.Snippet)
	}
	for _, m := range in.Thread {
		texts = append(texts, m.Text)
	}
	return texts
}

// Strategy produces a synthesis from an evidence bundle.
type Strategy interface {
	Synthesize(ctx context.Context, in Input) (signal.Synthesis, error)
}

func firstName(candidateID string) string {
	for i, r := range candidateID {
		if r == ' ' {
			return candidateID[:i]
		}
	}
	return candidateID
}
