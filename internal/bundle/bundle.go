// Package bundle reads per-candidate evidence bundles from JSON files.
// A bundle is what the upstream context-gathering collaborators produce:
// zero-or-one tracking record, calendar events, email signals, and the
// submission chat thread. This package is the engine's only file surface;
// the engine itself stays pure.
package bundle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kimbidav/weekly-slack-recon/internal/signal"
	"github.com/kimbidav/weekly-slack-recon/internal/synth"
)

// Candidate is one loaded bundle, ready for classification and synthesis.
type Candidate struct {
	ID         string
	Input      synth.Input
	Parent     *signal.ThreadEvent
	Replies    []signal.ThreadEvent
	SourcePath string
}

type fileSchema struct {
	CandidateID string                 `json:"candidate_id"`
	Tracking    *signal.TrackingRecord `json:"tracking_record,omitempty"`
	Calendar    []calendarSchema       `json:"calendar_events"`
	Emails      []emailSchema          `json:"email_signals"`
	Thread      []messageSchema        `json:"thread"`
}

type calendarSchema struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	// Upcoming is optional; when absent it is derived from the evaluation
	// time.
	Upcoming *bool `json:"is_upcoming,omitempty"`
}

type emailSchema struct {
	ID      string    `json:"id"`
	Subject string    `json:"subject"`
	Sender  string    `json:"sender"`
	Date    time.Time `json:"date"`
	Snippet string    `json:"snippet"`
	// Type is optional; untyped emails are classified from their text.
	Type string `json:"signal_type,omitempty"`
}

type messageSchema struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	IsParent  bool      `json:"is_parent"`
	Reactions []string  `json:"reactions,omitempty"`
}

// Load reads one bundle file. now anchors upcoming/past derivation and is
// carried into the synthesis input.
func Load(path string, rules signal.Rules, now time.Time) (Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Candidate{}, fmt.Errorf("failed to read bundle %s: %w", path, err)
	}

	var file fileSchema
	if err := json.Unmarshal(data, &file); err != nil {
		return Candidate{}, fmt.Errorf("failed to parse bundle %s: %w", path, err)
	}
	if file.CandidateID == "" {
		return Candidate{}, fmt.Errorf("bundle %s has no candidate_id", path)
	}

	in := synth.Input{
		CandidateID: file.CandidateID,
		Tracking:    file.Tracking,
		Now:         now,
	}

	for _, ev := range file.Calendar {
		upcoming := ev.Start.After(now)
		if ev.Upcoming != nil {
			upcoming = *ev.Upcoming
		}
		in.Calendar = append(in.Calendar, signal.CalendarEvent{
			ID:       ev.ID,
			Title:    ev.Title,
			Start:    ev.Start,
			End:      ev.End,
			Upcoming: upcoming,
		})
	}

	for _, e := range file.Emails {
		typ := signal.EmailSignalType(e.Type)
		if typ == "" {
			typ = signal.ClassifyEmailText(rules, e.Subject, e.Snippet)
		}
		in.Emails = append(in.Emails, signal.EmailSignal{
			ID:      e.ID,
			Subject: e.Subject,
			Sender:  e.Sender,
			Date:    e.Date,
			Snippet: e.Snippet,
			Type:    typ,
		})
	}
	// Collaborators promise newest-first; enforce it anyway.
	sort.SliceStable(in.Emails, func(i, j int) bool {
		return in.Emails[i].Date.After(in.Emails[j].Date)
	})

	cand := Candidate{ID: file.CandidateID, SourcePath: path}
	for _, m := range file.Thread {
		in.Thread = append(in.Thread, synth.ThreadMessage{
			Author:    m.Author,
			Text:      m.Text,
			Timestamp: m.Timestamp,
			IsParent:  m.IsParent,
		})

		reactions := make([]signal.Reaction, 0, len(m.Reactions))
		for _, r := range m.Reactions {
			reactions = append(reactions, signal.Reaction(r))
		}
		event := signal.ThreadEvent{
			Timestamp: m.Timestamp,
			Reactions: reactions,
			Text:      m.Text,
			IsParent:  m.IsParent,
		}
		if m.IsParent && cand.Parent == nil {
			parent := event
			cand.Parent = &parent
		} else {
			cand.Replies = append(cand.Replies, event)
		}
	}
	sort.SliceStable(cand.Replies, func(i, j int) bool {
		return cand.Replies[i].Timestamp.Before(cand.Replies[j].Timestamp)
	})

	cand.Input = in
	return cand, nil
}

// LoadDir loads every .json bundle in dir, sorted by file name.
func LoadDir(dir string, rules signal.Rules, now time.Time) ([]Candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle dir %s: %w", dir, err)
	}

	var candidates []Candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		cand, err := Load(filepath.Join(dir, entry.Name()), rules, now)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, cand)
	}
	return candidates, nil
}
