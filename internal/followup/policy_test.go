package followup

import (
	"testing"
	"time"

	"github.com/kimbidav/weekly-slack-recon/internal/signal"
)

func TestPolicy_Needed(t *testing.T) {
	policy := Policy{UnclearAfterDays: 7, InactiveAfterDays: 5}

	tests := []struct {
		name              string
		noParentReactions bool
		status            signal.Status
		daysSubmitted     int
		daysInactive      int
		want              bool
	}{
		{"NoReactionsAlwaysNudges", true, signal.StatusInProcessExplicit, 0, 0, true},
		{"NoReactionsEvenWhenClosed", true, signal.StatusClosed, 1, 1, true},
		{"UnclearOldAndStale", false, signal.StatusInProcessUnclear, 8, 6, true},
		{"UnclearAtExactThresholds", false, signal.StatusInProcessUnclear, 7, 5, true},
		{"UnclearOldButRecentlyRevived", false, signal.StatusInProcessUnclear, 100, 2, false},
		{"UnclearStaleButYoung", false, signal.StatusInProcessUnclear, 3, 30, false},
		{"ExplicitNeverNudges", false, signal.StatusInProcessExplicit, 100, 100, false},
		{"ClosedNeverNudges", false, signal.StatusClosed, 100, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Needed(tt.noParentReactions, tt.status, tt.daysSubmitted, tt.daysInactive)
			if got != tt.want {
				t.Errorf("Needed(%v, %q, %d, %d) = %v, want %v",
					tt.noParentReactions, tt.status, tt.daysSubmitted, tt.daysInactive, got, tt.want)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		then time.Time
		want int
	}{
		{"WholeDays", now.Add(-72 * time.Hour), 3},
		{"PartialDayTruncates", now.Add(-71 * time.Hour), 2},
		{"SameInstant", now, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(now, tt.then); got != tt.want {
				t.Errorf("DaysBetween = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestShortDate(t *testing.T) {
	d := time.Date(2026, 2, 23, 15, 4, 0, 0, time.UTC)
	if got := ShortDate(d); got != "2/23" {
		t.Errorf("ShortDate = %q, want 2/23", got)
	}
	d = time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC)
	if got := ShortDate(d); got != "11/3" {
		t.Errorf("ShortDate = %q, want 11/3", got)
	}
}
