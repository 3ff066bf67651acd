// Package classify turns a submission thread (parent message plus its
// chronological replies) into a canonical pipeline status.
//
// Precedence: a decline tag on the parent is authoritative and terminal.
// An explicit tag on the parent or any reply upgrades the default unclear
// status. Free text never moves status; emoji reactions are the only
// signal trusted here.
//
// Known quirk, kept on purpose pending product sign-off: a decline-shaped
// tag on a reply is inert. Only the parent's decline tag closes a
// submission.
package classify

import (
	"sort"
	"time"

	"github.com/kimbidav/weekly-slack-recon/internal/signal"
)

// Result is the classifier's verdict for one submission thread.
type Result struct {
	Status signal.Status `json:"status"`
	// Reason is the reaction tag that fixed the status, empty when the
	// thread is still unclear by default.
	Reason       string    `json:"reason,omitempty"`
	LastActivity time.Time `json:"last_activity"`
	// NoParentReactions is true when the parent message has zero reactions
	// of any kind, meaningful or not.
	NoParentReactions bool `json:"no_parent_reactions"`

	DaysSinceSubmission int `json:"days_since_submission"`
	DaysSinceActivity   int `json:"days_since_activity"`
}

// Classify applies the precedence rules to a parent event and its replies.
// Pure function: identical inputs always yield identical output.
func Classify(rules signal.Rules, parent signal.ThreadEvent, replies []signal.ThreadEvent, now time.Time) Result {
	lastActivity := parent.Timestamp
	noParentReactions := len(parent.Reactions) == 0

	// Authoritative parent annotations. Decline is terminal; nothing later
	// in time can override it.
	for _, tag := range parent.Reactions {
		if rules.IsDecline(tag) {
			return finish(signal.StatusClosed, string(tag), lastActivity, noParentReactions, parent.Timestamp, now)
		}
	}

	status := signal.StatusInProcessUnclear
	reason := ""
	for _, tag := range parent.Reactions {
		if rules.IsExplicit(tag) {
			status, reason = signal.StatusInProcessExplicit, string(tag)
			break
		}
	}

	// Chronological sweep: the parent event itself, then every reply
	// strictly after it. Replies at or before the parent timestamp are
	// clock-skew noise and skipped.
	events := make([]signal.ThreadEvent, 0, len(replies)+1)
	events = append(events, parent)
	for _, reply := range replies {
		if !reply.Timestamp.After(parent.Timestamp) {
			continue
		}
		if reply.Timestamp.After(lastActivity) {
			lastActivity = reply.Timestamp
		}
		events = append(events, reply)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	// Fold accumulating (status, reason). No event can set CLOSED; the
	// only upgrade is unclear -> explicit via the explicit tag.
	for _, ev := range events {
		if status.Closed() {
			break
		}
		for _, tag := range ev.Reactions {
			if rules.IsExplicit(tag) {
				status, reason = signal.StatusInProcessExplicit, string(tag)
				break
			}
		}
	}

	return finish(status, reason, lastActivity, noParentReactions, parent.Timestamp, now)
}

func finish(status signal.Status, reason string, lastActivity time.Time, noParentReactions bool, submitted, now time.Time) Result {
	return Result{
		Status:              status,
		Reason:              reason,
		LastActivity:        lastActivity,
		NoParentReactions:   noParentReactions,
		DaysSinceSubmission: daysBetween(now, submitted),
		DaysSinceActivity:   daysBetween(now, lastActivity),
	}
}

func daysBetween(now, then time.Time) int {
	return int(now.Sub(then).Hours() / 24)
}
