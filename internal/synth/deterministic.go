package synth

import (
	"context"
	"fmt"
	"strings"

	"github.com/kimbidav/weekly-slack-recon/internal/followup"
	"github.com/kimbidav/weekly-slack-recon/internal/signal"
)

// Deterministic is the keyword-priority strategy: a fixed cascade that
// stops at the first source with usable evidence. It is the fallback when
// the generative strategy fails and the only strategy when no reasoning
// backend is configured. It never returns an error.
type Deterministic struct {
	Rules signal.Rules
}

// Synthesize runs the cascade: calendar, email, chat, tracking record,
// nothing. Independent of which branch fires, soft-pass language anywhere
// in the evidence sets the review flag; a rejection email is always
// flagged.
func (d Deterministic) Synthesize(_ context.Context, in Input) (signal.Synthesis, error) {
	softPass := d.Rules.SoftPass(in.allText())

	if event, ok := pickCalendarEvent(in); ok {
		return d.fromCalendar(in, event, softPass), nil
	}
	if email, ok := pickActionableEmail(in); ok {
		return d.fromEmail(in, email, softPass), nil
	}
	if reply, ok := latestReply(in); ok {
		return d.fromChat(in, reply, softPass), nil
	}
	if in.Tracking != nil && in.Tracking.Stage != "" {
		return signal.Synthesis{
			CandidateID:       in.CandidateID,
			Source:            signal.SourceTracking,
			OneLiner:          "any update on where things stand?",
			Confidence:        signal.ConfidenceLow,
			FlagForReview:     softPass,
			SupportingContext: fmt.Sprintf("ATS stage: %s (%d days)", in.Tracking.Stage, in.Tracking.DaysInStage),
		}, nil
	}
	return signal.Synthesis{
		CandidateID:       in.CandidateID,
		Source:            signal.SourceNone,
		OneLiner:          "any update on where things stand here?",
		Confidence:        signal.ConfidenceLow,
		FlagForReview:     softPass,
		SupportingContext: "No recent signal from any source.",
	}, nil
}

// pickCalendarEvent returns the most relevant event: the soonest upcoming
// one if any are upcoming, else the most recent past one.
func pickCalendarEvent(in Input) (signal.CalendarEvent, bool) {
	var chosen signal.CalendarEvent
	found := false
	for _, ev := range in.Calendar {
		if !ev.Upcoming {
			continue
		}
		if !found || ev.Start.Before(chosen.Start) {
			chosen, found = ev, true
		}
	}
	if found {
		return chosen, true
	}
	for _, ev := range in.Calendar {
		if !found || ev.Start.After(chosen.Start) {
			chosen, found = ev, true
		}
	}
	return chosen, found
}

func (d Deterministic) fromCalendar(in Input, event signal.CalendarEvent, softPass bool) signal.Synthesis {
	stage := d.stageFromTitle(event.Title)
	date := followup.ShortDate(event.Start)
	var oneLiner string
	if event.Upcoming {
		oneLiner = fmt.Sprintf("%s is set for %s — excited to see how it goes!", stage, date)
	} else {
		// The event happened but the outcome is unknown; ask, don't assert.
		oneLiner = fmt.Sprintf("had the %s on %s — any feedback on how it went?", stage, date)
	}
	return signal.Synthesis{
		CandidateID:       in.CandidateID,
		Source:            signal.SourceCalendar,
		OneLiner:          oneLiner,
		Confidence:        signal.ConfidenceHigh,
		FlagForReview:     softPass,
		SupportingContext: event.Title,
	}
}

// pickActionableEmail returns the newest email whose signal type is
// advancement, scheduling or rejection. Other-typed emails are ignored.
func pickActionableEmail(in Input) (signal.EmailSignal, bool) {
	var chosen signal.EmailSignal
	found := false
	for _, e := range in.Emails {
		if !e.Type.Actionable() {
			continue
		}
		if !found || e.Date.After(chosen.Date) {
			chosen, found = e, true
		}
	}
	return chosen, found
}

func (d Deterministic) fromEmail(in Input, email signal.EmailSignal, softPass bool) signal.Synthesis {
	date := followup.ShortDate(email.Date)
	supporting := fmt.Sprintf("Email: %s (%s)", email.Subject, date)

	switch email.Type {
	case signal.EmailRejection:
		return signal.Synthesis{
			CandidateID:       in.CandidateID,
			Source:            signal.SourceEmail,
			OneLiner:          "looks like there may have been a pass — wanted to confirm?",
			Confidence:        signal.ConfidenceMedium,
			FlagForReview:     true,
			SupportingContext: supporting,
		}
	case signal.EmailScheduling:
		return signal.Synthesis{
			CandidateID:       in.CandidateID,
			Source:            signal.SourceEmail,
			OneLiner:          "scheduling in progress — any update on next steps?",
			Confidence:        signal.ConfidenceMedium,
			FlagForReview:     softPass,
			SupportingContext: supporting,
		}
	default: // advancement
		return signal.Synthesis{
			CandidateID:       in.CandidateID,
			Source:            signal.SourceEmail,
			OneLiner:          fmt.Sprintf("advanced to the next stage as of %s — any update on where things stand?", date),
			Confidence:        signal.ConfidenceMedium,
			FlagForReview:     softPass,
			SupportingContext: supporting,
		}
	}
}

// latestReply returns the most recent non-parent message with non-empty
// text.
func latestReply(in Input) (ThreadMessage, bool) {
	var chosen ThreadMessage
	found := false
	for _, m := range in.Thread {
		if m.IsParent || strings.TrimSpace(m.Text) == "" {
			continue
		}
		if !found || m.Timestamp.After(chosen.Timestamp) {
			chosen, found = m, true
		}
	}
	return chosen, found
}

func (d Deterministic) fromChat(in Input, reply ThreadMessage, softPass bool) signal.Synthesis {
	dateSuffix := ""
	if !reply.Timestamp.IsZero() {
		dateSuffix = " as of " + followup.ShortDate(reply.Timestamp)
	}

	var texts []string
	for _, m := range in.Thread {
		texts = append(texts, m.Text)
	}
	combined := strings.Join(texts, " ")

	var oneLiner string
	switch {
	case signal.ContainsAny(combined, d.Rules.TakeHomeKeywords):
		oneLiner = fmt.Sprintf("coding challenge sent%s — any update from %s?", dateSuffix, firstName(in.CandidateID))
	case signal.ContainsAny(combined, d.Rules.ScreenKeywords):
		oneLiner = fmt.Sprintf("phone/tech screen completed%s — any feedback?", dateSuffix)
	case signal.ContainsAny(combined, d.Rules.OnsiteKeywords):
		oneLiner = fmt.Sprintf("onsite/loop scheduled%s — any news?", dateSuffix)
	default:
		oneLiner = fmt.Sprintf("last activity%s — any update on where things stand?", dateSuffix)
	}

	supporting := reply.Text
	if runes := []rune(supporting); len(runes) > 200 {
		supporting = string(runes[:200])
	}
	return signal.Synthesis{
		CandidateID:       in.CandidateID,
		Source:            signal.SourceChat,
		OneLiner:          oneLiner,
		Confidence:        signal.ConfidenceMedium,
		FlagForReview:     softPass,
		SupportingContext: supporting,
	}
}

// stageFromTitle guesses the interview stage from an event title, e.g.
// "Louise x Charta technical" yields "technical".
func (d Deterministic) stageFromTitle(title string) string {
	lowered := strings.ToLower(title)
	for _, stage := range d.Rules.StageWords {
		if strings.Contains(lowered, stage) {
			return stage
		}
	}
	return "interview"
}
