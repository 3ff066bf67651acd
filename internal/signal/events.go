package signal

import "time"

// Reaction is a symbolic tag (an emoji name, without colons) attached to a
// chat message. Only tags listed in Rules are meaningful; everything else
// is ignored by the engine.
type Reaction string

// ThreadEvent is one message in a submission thread: the parent submission
// itself or a reply. Replies are expected sorted ascending by timestamp;
// the classifier discards replies at or before the parent timestamp as
// clock-skew noise.
type ThreadEvent struct {
	Timestamp time.Time
	Reactions []Reaction
	Text      string
	IsParent  bool
}

// HasReaction reports whether the event carries any of the given tags.
func (e ThreadEvent) HasReaction(tags []Reaction) bool {
	for _, r := range e.Reactions {
		for _, t := range tags {
			if r == t {
				return true
			}
		}
	}
	return false
}
