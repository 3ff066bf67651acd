// Package signal defines the shared vocabulary for the status engine:
// canonical pipeline statuses, evidence sources, the value records each
// evidence kind is delivered in, and the injected rule tables that drive
// classification. Everything here is a plain value object; the package has
// no I/O and no clock.
package signal

// Status is the canonical pipeline state of a submission. Exactly three
// values exist; a submission has exactly one at evaluation time.
type Status string

const (
	StatusClosed            Status = "CLOSED"
	StatusInProcessExplicit Status = "IN PROCESS — explicit"
	StatusInProcessUnclear  Status = "IN PROCESS — unclear"
)

// Closed reports whether the status is terminal.
func (s Status) Closed() bool { return s == StatusClosed }

// Source identifies the origin system a synthesized status line was
// derived from.
type Source string

const (
	SourceTracking Source = "tracking"
	SourceCalendar Source = "calendar"
	SourceEmail    Source = "email"
	SourceChat     Source = "chat"
	SourceNone     Source = "none"
)

// Confidence grades how much a synthesized one-liner can be trusted.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ValidSource reports whether s is one of the five known sources.
func ValidSource(s Source) bool {
	switch s {
	case SourceTracking, SourceCalendar, SourceEmail, SourceChat, SourceNone:
		return true
	}
	return false
}

// ValidConfidence reports whether c is one of the three known grades.
func ValidConfidence(c Confidence) bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}
