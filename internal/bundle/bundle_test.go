package bundle

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimbidav/weekly-slack-recon/internal/signal"
)

var loadNow = time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)

const sampleBundle = `{
  "candidate_id": "Louise Park",
  "tracking_record": {"stage": "Onsite", "days_in_stage": 9},
  "calendar_events": [
    {"id": "ev1", "title": "Louise x Charta onsite", "start": "2026-02-23T17:00:00Z", "end": "2026-02-23T18:00:00Z"}
  ],
  "email_signals": [
    {"id": "m1", "subject": "Next steps", "sender": "eng@charta.example", "date": "2026-02-15T08:00:00Z", "snippet": "please share availability", "signal_type": "scheduling"},
    {"id": "m2", "subject": "Louise", "sender": "eng@charta.example", "date": "2026-02-18T08:00:00Z", "snippet": "we would like to move forward"}
  ],
  "thread": [
    {"author": "dk", "text": "submitting Louise", "timestamp": "2026-02-08T09:00:00Z", "is_parent": true, "reactions": ["eyes"]},
    {"author": "eng", "text": "tech screen done", "timestamp": "2026-02-12T09:00:00Z", "reactions": ["white_check_mark"]},
    {"author": "eng", "text": "earlier note", "timestamp": "2026-02-10T09:00:00Z"}
  ]
}`

func writeBundle(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeBundle(t, t.TempDir(), "louise.json", sampleBundle)

	cand, err := Load(path, signal.DefaultRules(), loadNow)
	require.NoError(t, err)

	assert.Equal(t, "Louise Park", cand.ID)
	require.NotNil(t, cand.Input.Tracking)
	assert.Equal(t, "Onsite", cand.Input.Tracking.Stage)

	// is_upcoming was absent; derived from the evaluation time.
	require.Len(t, cand.Input.Calendar, 1)
	assert.True(t, cand.Input.Calendar[0].Upcoming)

	// Emails re-sorted newest-first; the untyped one classified from text.
	require.Len(t, cand.Input.Emails, 2)
	assert.Equal(t, "m2", cand.Input.Emails[0].ID)
	assert.Equal(t, signal.EmailAdvancement, cand.Input.Emails[0].Type)
	assert.Equal(t, signal.EmailScheduling, cand.Input.Emails[1].Type)

	// Thread split into parent + time-sorted replies with reactions kept.
	require.NotNil(t, cand.Parent)
	assert.True(t, cand.Parent.IsParent)
	assert.Equal(t, []signal.Reaction{"eyes"}, cand.Parent.Reactions)
	require.Len(t, cand.Replies, 2)
	assert.Equal(t, "earlier note", cand.Replies[0].Text)
	assert.Equal(t, "tech screen done", cand.Replies[1].Text)

	// Synthesis input carries the full transcript including the parent.
	assert.Len(t, cand.Input.Thread, 3)
	assert.Equal(t, loadNow, cand.Input.Now)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.json"), signal.DefaultRules(), loadNow)
		assert.Error(t, err)
	})

	t.Run("BadJSON", func(t *testing.T) {
		path := writeBundle(t, dir, "bad.json", "{not json")
		_, err := Load(path, signal.DefaultRules(), loadNow)
		assert.Error(t, err)
	})

	t.Run("NoCandidateID", func(t *testing.T) {
		path := writeBundle(t, dir, "empty.json", `{"thread": []}`)
		_, err := Load(path, signal.DefaultRules(), loadNow)
		assert.Error(t, err)
	})
}

func TestLoad_ExplicitUpcomingOverride(t *testing.T) {
	// A collaborator can pin is_upcoming even when it disagrees with now.
	content := `{
	  "candidate_id": "c",
	  "calendar_events": [
	    {"id": "ev1", "title": "t", "start": "2026-02-25T17:00:00Z", "end": "2026-02-25T18:00:00Z", "is_upcoming": false}
	  ]
	}`
	path := writeBundle(t, t.TempDir(), "c.json", content)

	cand, err := Load(path, signal.DefaultRules(), loadNow)
	require.NoError(t, err)
	require.Len(t, cand.Input.Calendar, 1)
	assert.False(t, cand.Input.Calendar[0].Upcoming)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "b.json", `{"candidate_id": "Bea"}`)
	writeBundle(t, dir, "a.json", `{"candidate_id": "Ada"}`)
	writeBundle(t, dir, "notes.txt", "ignore me")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	candidates, err := LoadDir(dir, signal.DefaultRules(), loadNow)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "Ada", candidates[0].ID)
	assert.Equal(t, "Bea", candidates[1].ID)
}
