package signal

import "strings"

// Rules holds the lookup tables the classifier and synthesizer consult.
// They are loaded once at startup and passed in explicitly so tests can
// substitute their own tables.
type Rules struct {
	// DeclineTags on the parent message are the authoritative, terminal
	// CLOSED annotation. Nothing else can force CLOSED.
	DeclineTags []Reaction
	// ExplicitTags mark a submission as explicitly in process, on the
	// parent or any reply.
	ExplicitTags []Reaction

	// SoftPassPhrases indicate hesitation or deferral without an explicit
	// rejection; any hit flags the candidate for human review.
	SoftPassPhrases []string

	// Chat stage buckets for phrasing the chat-branch one-liner.
	TakeHomeKeywords []string
	ScreenKeywords   []string
	OnsiteKeywords   []string

	// StageWords are probed, in order, against calendar event titles to
	// guess the interview stage.
	StageWords []string

	// Email classification keywords, checked rejection first.
	RejectionKeywords   []string
	SchedulingKeywords  []string
	AdvancementKeywords []string
}

// DefaultRules returns the production tables.
func DefaultRules() Rules {
	return Rules{
		DeclineTags:  []Reaction{"no_entry", "no_entry_sign"},
		ExplicitTags: []Reaction{"white_check_mark"},
		SoftPassPhrases: []string{
			"comp mismatch", "compensation mismatch", "salary mismatch",
			"over budget", "overqualified", "underqualified",
			"not the right time", "not a priority", "keeping warm",
			"table this", "hold off", "put a pin",
			"concerned about", "hesitant", "on the fence",
		},
		TakeHomeKeywords: []string{"coding challenge", "hackerrank", "take-home", "homework"},
		ScreenKeywords:   []string{"tech screen", "technical screen", "phone screen"},
		OnsiteKeywords:   []string{"onsite", "loop", "final round"},
		StageWords: []string{
			"onsite", "technical", "tech screen", "coding", "loop", "final", "intro", "phone",
		},
		RejectionKeywords: []string{
			"pass", "not moving forward", "not a fit", "not the right fit",
			"decline", "declined", "rejected", "rejection", "unfortunately",
			"decided not to", "going a different direction",
		},
		SchedulingKeywords: []string{
			"calendar invite", "calendar link", "schedule", "scheduling",
			"book a time", "availability", "calendly", "zoom link",
			"google meet", "teams link",
		},
		AdvancementKeywords: []string{
			"move forward", "moving forward", "advance", "advancing", "next round",
			"next step", "next stage", "proceed", "interview", "onsite", "loop",
			"technical screen", "coding challenge", "hackerrank", "take-home",
		},
	}
}

// IsDecline reports whether the tag is an authoritative decline annotation.
func (r Rules) IsDecline(tag Reaction) bool {
	for _, t := range r.DeclineTags {
		if tag == t {
			return true
		}
	}
	return false
}

// IsExplicit reports whether the tag marks explicit in-process status.
func (r Rules) IsExplicit(tag Reaction) bool {
	for _, t := range r.ExplicitTags {
		if tag == t {
			return true
		}
	}
	return false
}

// ContainsAny reports whether the lowercased text contains any of the
// given phrases. Plain substring match, the way the evidence sources use
// these tables.
func ContainsAny(text string, phrases []string) bool {
	if text == "" {
		return false
	}
	lowered := strings.ToLower(text)
	for _, p := range phrases {
		if p != "" && strings.Contains(lowered, p) {
			return true
		}
	}
	return false
}

// SoftPass reports whether any of the texts contains soft-pass language.
func (r Rules) SoftPass(texts []string) bool {
	return ContainsAny(strings.Join(texts, " "), r.SoftPassPhrases)
}

// ClassifyEmailText buckets an email by subject + snippet. Rejection
// language wins over scheduling, scheduling over advancement.
func ClassifyEmailText(r Rules, subject, snippet string) EmailSignalType {
	combined := subject + " " + snippet
	switch {
	case ContainsAny(combined, r.RejectionKeywords):
		return EmailRejection
	case ContainsAny(combined, r.SchedulingKeywords):
		return EmailScheduling
	case ContainsAny(combined, r.AdvancementKeywords):
		return EmailAdvancement
	}
	return EmailOther
}
