package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kimbidav/weekly-slack-recon/internal/reasoning"
	"github.com/kimbidav/weekly-slack-recon/internal/signal"
)

// systemInstruction fixes the backend's job. Note the source priority here
// ranks an existing tracking record FIRST; the deterministic cascade
// deliberately uses a different order.
const systemInstruction = `You are an assistant that analyzes recruiting pipeline evidence for a staffing firm.
You are given every signal we hold for one candidate: an applicant-tracking record (may be absent), calendar events, email signals, and the chat thread where the candidate was submitted.

Write one status line the recruiter could send to the client.

Rules:
- Resolve relative dates against the "today" field in the evidence.
- Prefer the highest-priority source that contains a usable signal. Priority: tracking record (if present), then calendar, then email, then chat.
- Never state an unconfirmed fact as certain. If the outcome is unknown, phrase the line as a question.
- Flag the candidate for review when the evidence hints at a pass, hesitation, budget mismatch, or deferral.

Return ONLY a JSON object with exactly these fields:
- "one_liner": the status sentence
- "confidence": "high", "medium" or "low"
- "source": "tracking", "calendar", "email", "chat" or "none"
- "flag_for_review": true or false
- "supporting_context": a short excerpt of the evidence you relied on`

// Generative delegates evidence interpretation to a reasoning backend.
// Any failure (transport, timeout, unparseable reply) surfaces as an
// error for the caller to recover from.
type Generative struct {
	Backend reasoning.Backend
}

type backendReply struct {
	OneLiner          string            `json:"one_liner"`
	Confidence        signal.Confidence `json:"confidence"`
	Source            signal.Source     `json:"source"`
	FlagForReview     bool              `json:"flag_for_review"`
	SupportingContext string            `json:"supporting_context"`
}

// evidenceBundle is the JSON shape handed to the backend.
type evidenceBundle struct {
	Candidate string                 `json:"candidate"`
	Today     string                 `json:"today"`
	Tracking  *signal.TrackingRecord `json:"tracking_record,omitempty"`
	Calendar  []calendarEvidence     `json:"calendar_events"`
	Emails    []emailEvidence        `json:"email_signals"`
	Thread    []threadEvidence       `json:"chat_thread"`
}

type calendarEvidence struct {
	Title    string `json:"title"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Upcoming bool   `json:"is_upcoming"`
}

type emailEvidence struct {
	Subject string `json:"subject"`
	Sender  string `json:"sender"`
	Date    string `json:"date"`
	Snippet string `json:"snippet"`
	Type    string `json:"signal_type,omitempty"`
}

type threadEvidence struct {
	Author   string `json:"author"`
	Time     string `json:"time"`
	Text     string `json:"text"`
	IsParent bool   `json:"is_parent"`
}

// Synthesize serializes the evidence, asks the backend, and validates the
// structured reply.
func (g Generative) Synthesize(ctx context.Context, in Input) (signal.Synthesis, error) {
	if g.Backend == nil {
		return signal.Synthesis{}, fmt.Errorf("no reasoning backend configured")
	}

	prompt, err := buildPrompt(in)
	if err != nil {
		return signal.Synthesis{}, fmt.Errorf("serialize evidence: %w", err)
	}

	raw, err := g.Backend.Complete(ctx, systemInstruction, prompt)
	if err != nil {
		return signal.Synthesis{}, fmt.Errorf("backend completion: %w", err)
	}

	reply, err := parseReply(raw)
	if err != nil {
		return signal.Synthesis{}, err
	}

	return signal.Synthesis{
		CandidateID:       in.CandidateID,
		Source:            reply.Source,
		OneLiner:          reply.OneLiner,
		Confidence:        reply.Confidence,
		FlagForReview:     reply.FlagForReview,
		SupportingContext: reply.SupportingContext,
	}, nil
}

func buildPrompt(in Input) (string, error) {
	bundle := evidenceBundle{
		Candidate: in.CandidateID,
		Today:     in.Now.UTC().Format("2006-01-02"),
		Tracking:  in.Tracking,
		Calendar:  make([]calendarEvidence, 0, len(in.Calendar)),
		Emails:    make([]emailEvidence, 0, len(in.Emails)),
		Thread:    make([]threadEvidence, 0, len(in.Thread)),
	}
	for _, ev := range in.Calendar {
		bundle.Calendar = append(bundle.Calendar, calendarEvidence{
			Title:    ev.Title,
			Start:    ev.Start.UTC().Format("2006-01-02 15:04"),
			End:      ev.End.UTC().Format("2006-01-02 15:04"),
			Upcoming: ev.Upcoming,
		})
	}
	for _, e := range in.Emails {
		bundle.Emails = append(bundle.Emails, emailEvidence{
			Subject: e.Subject,
			Sender:  e.Sender,
			Date:    e.Date.UTC().Format("2006-01-02"),
			Snippet: e.Snippet,
			Type:    string(e.Type),
		})
	}
	for _, m := range in.Thread {
		bundle.Thread = append(bundle.Thread, threadEvidence{
			Author:   m.Author,
			Time:     m.Timestamp.UTC().Format("2006-01-02 15:04"),
			Text:     m.Text,
			IsParent: m.IsParent,
		})
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return "", err
	}
	return "Synthesize this candidate's current status:\n\n" + string(data), nil
}

// parseReply decodes the backend's JSON, tolerating a fenced code block
// around it.
func parseReply(raw string) (backendReply, error) {
	cleaned := stripFences(raw)

	var reply backendReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return backendReply{}, fmt.Errorf("unparseable backend reply: %w", err)
	}
	if reply.OneLiner == "" {
		return backendReply{}, fmt.Errorf("backend reply missing one_liner")
	}
	if !signal.ValidConfidence(reply.Confidence) {
		return backendReply{}, fmt.Errorf("backend reply has unknown confidence %q", reply.Confidence)
	}
	if !signal.ValidSource(reply.Source) {
		return backendReply{}, fmt.Errorf("backend reply has unknown source %q", reply.Source)
	}
	return reply, nil
}

func stripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	lines := strings.Split(cleaned, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
