// Package followup decides whether a submission deserves a human nudge,
// and holds the small date-window arithmetic shared by the status engine.
package followup

import (
	"fmt"
	"time"

	"github.com/kimbidav/weekly-slack-recon/internal/signal"
)

// Policy holds the elapsed-time thresholds that gate follow-up nudges.
type Policy struct {
	// UnclearAfterDays is how old an unclear submission must be before it
	// is worth a nudge.
	UnclearAfterDays int
	// InactiveAfterDays is how long a thread must be silent before a
	// nudge. Both thresholds must hold; a recently revived thread is not
	// re-flagged just for being old.
	InactiveAfterDays int
}

// Needed reports whether a human nudge is warranted.
//
// True when the parent has zero reactions regardless of age, or when the
// status is still unclear and the submission is both old enough and
// inactive long enough.
func (p Policy) Needed(noParentReactions bool, status signal.Status, daysSinceSubmission, daysSinceActivity int) bool {
	if noParentReactions {
		return true
	}
	return status == signal.StatusInProcessUnclear &&
		daysSinceSubmission >= p.UnclearAfterDays &&
		daysSinceActivity >= p.InactiveAfterDays
}

// DaysBetween returns whole days elapsed from then to now, truncated.
func DaysBetween(now, then time.Time) int {
	return int(now.Sub(then).Hours() / 24)
}

// ShortDate renders a timestamp the way one-liners reference dates, e.g.
// "2/23".
func ShortDate(t time.Time) string {
	return fmt.Sprintf("%d/%d", int(t.Month()), t.Day())
}
