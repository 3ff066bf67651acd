package signal

import "time"

// EmailSignalType buckets a candidate-related email by what it implies
// about the pipeline.
type EmailSignalType string

const (
	EmailAdvancement EmailSignalType = "advancement"
	EmailScheduling  EmailSignalType = "scheduling"
	EmailRejection   EmailSignalType = "rejection"
	EmailOther       EmailSignalType = "other"
)

// Actionable reports whether the signal type carries a usable status hint.
// EmailOther is noise to the synthesizer.
func (t EmailSignalType) Actionable() bool {
	return t == EmailAdvancement || t == EmailScheduling || t == EmailRejection
}

// EmailSignal is a single candidate-relevant email. Collaborators supply
// these newest-first.
type EmailSignal struct {
	ID      string          `json:"id"`
	Subject string          `json:"subject"`
	Sender  string          `json:"sender"`
	Date    time.Time       `json:"date"`
	Snippet string          `json:"snippet"`
	Type    EmailSignalType `json:"signal_type"`
}

// CalendarEvent is a scheduled interview event relevant to a candidate.
type CalendarEvent struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Upcoming bool      `json:"is_upcoming"`
}

// TrackingRecord is the structured applicant-tracking-system view of a
// candidate: the formal stage plus whatever notes the system holds. It is
// frequently stale relative to live calendar/email/chat signals.
type TrackingRecord struct {
	Stage          string `json:"stage"`
	Progress       string `json:"progress"`
	DaysInStage    int    `json:"days_in_stage"`
	Recommendation string `json:"recommendation"`
	FeedbackAuthor string `json:"feedback_author"`
}
