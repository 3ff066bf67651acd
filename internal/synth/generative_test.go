package synth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimbidav/weekly-slack-recon/internal/reasoning"
	"github.com/kimbidav/weekly-slack-recon/internal/signal"
)

const goodReply = `{
  "one_liner": "onsite is set for 2/23 — excited to see how it goes!",
  "confidence": "high",
  "source": "calendar",
  "flag_for_review": false,
  "supporting_context": "Louise x Charta onsite"
}`

func TestGenerative_ParsesPlainJSON(t *testing.T) {
	backend := reasoning.Func(func(ctx context.Context, system, prompt string) (string, error) {
		return goodReply, nil
	})

	out, err := Generative{Backend: backend}.Synthesize(context.Background(), Input{CandidateID: "Louise Park", Now: synthNow})
	require.NoError(t, err)
	assert.Equal(t, signal.SourceCalendar, out.Source)
	assert.Equal(t, signal.ConfidenceHigh, out.Confidence)
	assert.Equal(t, "Louise Park", out.CandidateID)
	assert.Contains(t, out.OneLiner, "onsite is set for 2/23")
}

func TestGenerative_ParsesFencedJSON(t *testing.T) {
	backend := reasoning.Func(func(ctx context.Context, system, prompt string) (string, error) {
		return "```json\n" + goodReply + "\n```", nil
	})

	out, err := Generative{Backend: backend}.Synthesize(context.Background(), Input{CandidateID: "Louise Park", Now: synthNow})
	require.NoError(t, err)
	assert.Equal(t, signal.SourceCalendar, out.Source)
}

func TestGenerative_RejectsBadReplies(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"NotJSON", "sorry, I cannot help with that"},
		{"MissingOneLiner", `{"confidence":"high","source":"chat","flag_for_review":false}`},
		{"UnknownConfidence", `{"one_liner":"x","confidence":"certain","source":"chat"}`},
		{"UnknownSource", `{"one_liner":"x","confidence":"high","source":"carrier pigeon"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := reasoning.Func(func(ctx context.Context, system, prompt string) (string, error) {
				return tt.reply, nil
			})
			_, err := Generative{Backend: backend}.Synthesize(context.Background(), Input{CandidateID: "c", Now: synthNow})
			assert.Error(t, err)
		})
	}
}

func TestGenerative_PromptCarriesEvidence(t *testing.T) {
	var captured string
	backend := reasoning.Func(func(ctx context.Context, system, prompt string) (string, error) {
		captured = prompt
		return goodReply, nil
	})

	in := Input{
		CandidateID: "Louise Park",
		Tracking:    &signal.TrackingRecord{Stage: "Onsite", DaysInStage: 4},
		Emails:      []signal.EmailSignal{email(signal.EmailScheduling, 2, "calendly link inside")},
		Thread: []ThreadMessage{
			{Author: "dk", Text: "submitting Louise", Timestamp: synthNow.AddDate(0, 0, -7), IsParent: true},
		},
		Now: synthNow,
	}
	_, err := Generative{Backend: backend}.Synthesize(context.Background(), in)
	require.NoError(t, err)

	assert.Contains(t, captured, `"today": "2026-02-20"`)
	assert.Contains(t, captured, "Onsite")
	assert.Contains(t, captured, "calendly link inside")
	assert.Contains(t, captured, "submitting Louise")

	// The prompt body must be valid JSON after the instruction line.
	_, body, found := strings.Cut(captured, "\n\n")
	require.True(t, found)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
}

func TestGenerative_SystemInstructionRanksTrackingFirst(t *testing.T) {
	// The generative priority deliberately differs from the deterministic
	// cascade: tracking record first. Guard the instruction text.
	idx := strings.Index(systemInstruction, "tracking record (if present), then calendar, then email, then chat")
	assert.Greater(t, idx, 0, "system instruction must rank the tracking record above live sources")
}

func TestSynthesizer_FallsBackOnBackendError(t *testing.T) {
	backend := reasoning.Func(func(ctx context.Context, system, prompt string) (string, error) {
		return "", errors.New("rate limited")
	})
	s := New(signal.DefaultRules(), backend, nil)

	in := Input{
		CandidateID: "Maanav Shah",
		Calendar:    []signal.CalendarEvent{calEvent("Maanav x Decagon phone", synthNow.AddDate(0, 0, 2), true)},
		Now:         synthNow,
	}

	out := s.Run(context.Background(), in)
	assert.Equal(t, signal.SourceCalendar, out.Source)
	assert.Equal(t, signal.ConfidenceHigh, out.Confidence)
}

func TestSynthesizer_FallsBackOnGarbageReply(t *testing.T) {
	backend := reasoning.Func(func(ctx context.Context, system, prompt string) (string, error) {
		return "definitely not json", nil
	})
	s := New(signal.DefaultRules(), backend, nil)

	out := s.Run(context.Background(), Input{CandidateID: "Maanav Shah", Now: synthNow})
	assert.Equal(t, signal.SourceNone, out.Source)
	assert.Equal(t, signal.ConfidenceLow, out.Confidence)
}

func TestSynthesizer_NoBackendUsesDeterministic(t *testing.T) {
	s := New(signal.DefaultRules(), nil, nil)

	out := s.Run(context.Background(), Input{CandidateID: "Maanav Shah", Now: synthNow})
	assert.Equal(t, signal.SourceNone, out.Source)
	assert.Equal(t, "any update on where things stand here?", out.OneLiner)
}

func TestSynthesizer_PrefersGenerativeWhenItWorks(t *testing.T) {
	calls := 0
	backend := reasoning.Func(func(ctx context.Context, system, prompt string) (string, error) {
		calls++
		return goodReply, nil
	})
	s := New(signal.DefaultRules(), backend, nil)

	out := s.Run(context.Background(), Input{CandidateID: "Louise Park", Now: synthNow})
	assert.Equal(t, 1, calls)
	assert.Equal(t, signal.SourceCalendar, out.Source)
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Bare", `{"a":1}`, `{"a":1}`},
		{"Fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"FencedNoLang", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"Whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.in); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
