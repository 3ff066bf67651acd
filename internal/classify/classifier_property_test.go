package classify

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/kimbidav/weekly-slack-recon/internal/signal"
)

var tagPool = []signal.Reaction{
	"no_entry", "no_entry_sign", "white_check_mark",
	"thumbsup", "eyes", "hourglass_flowing_sand", "tada", "x",
}

func genThread(t *rapid.T) (signal.ThreadEvent, []signal.ThreadEvent) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	genReactions := rapid.SliceOfN(rapid.SampledFrom(tagPool), 0, 4)

	parent := signal.ThreadEvent{
		Timestamp: base,
		Reactions: genReactions.Draw(t, "parentReactions"),
		Text:      rapid.StringN(0, 40, -1).Draw(t, "parentText"),
		IsParent:  true,
	}

	n := rapid.IntRange(0, 6).Draw(t, "replyCount")
	replies := make([]signal.ThreadEvent, 0, n)
	for i := 0; i < n; i++ {
		offset := rapid.Int64Range(-3600, 14*24*3600).Draw(t, "offset")
		replies = append(replies, signal.ThreadEvent{
			Timestamp: base.Add(time.Duration(offset) * time.Second),
			Reactions: genReactions.Draw(t, "replyReactions"),
			Text:      rapid.StringN(0, 40, -1).Draw(t, "replyText"),
		})
	}
	return parent, replies
}

func TestClassify_Properties(t *testing.T) {
	rules := signal.DefaultRules()
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	rapid.Check(t, func(t *rapid.T) {
		parent, replies := genThread(t)

		first := Classify(rules, parent, replies, now)
		second := Classify(rules, parent, replies, now)
		if first != second {
			t.Fatalf("not idempotent: %+v vs %+v", first, second)
		}

		parentDecline := parent.HasReaction(rules.DeclineTags)

		// A parent decline always closes, no matter what the replies hold.
		if parentDecline && first.Status != signal.StatusClosed {
			t.Fatalf("parent decline did not close: %+v", first)
		}
		// Nothing but a parent decline can close.
		if !parentDecline && first.Status == signal.StatusClosed {
			t.Fatalf("closed without parent decline: %+v", first)
		}

		if first.NoParentReactions != (len(parent.Reactions) == 0) {
			t.Fatalf("NoParentReactions mismatch: %+v", first)
		}
		if first.LastActivity.Before(parent.Timestamp) {
			t.Fatalf("last activity before parent: %+v", first)
		}
	})
}
