// Package store persists synthesis results and nudge records in SQLite so
// collaborators (report writers, the nudge sender) can consume them. The
// engine never reads this state back into a decision; every run recomputes
// from scratch.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/kimbidav/weekly-slack-recon/internal/logging"
	"github.com/kimbidav/weekly-slack-recon/internal/signal"
)

// Ledger records syntheses and nudges.
type Ledger struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// SynthesisRow is a persisted synthesis.
type SynthesisRow struct {
	ID        string
	Synthesis signal.Synthesis
	CreatedAt time.Time
}

// Open initializes the SQLite ledger at path.
func Open(path string) (*Ledger, error) {
	log := logging.Get(logging.CategoryStore)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			log.Debug("pragma failed", zap.String("pragma", pragma))
		}
	}

	l := &Ledger{db: db, path: path}
	if err := l.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	log.Debug("ledger opened", zap.String("path", path))
	return l, nil
}

func (l *Ledger) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS syntheses (
		id TEXT PRIMARY KEY,
		candidate_id TEXT NOT NULL,
		source TEXT NOT NULL,
		one_liner TEXT NOT NULL,
		confidence TEXT NOT NULL,
		flag_for_review INTEGER NOT NULL,
		supporting_context TEXT,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_syntheses_candidate ON syntheses(candidate_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS nudges (
		candidate_id TEXT NOT NULL,
		nudged_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_nudges_candidate ON nudges(candidate_id, nudged_at DESC);
	`
	if _, err := l.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize ledger schema: %w", err)
	}
	return nil
}

// RecordSynthesis appends a synthesis to the ledger and returns its row ID.
func (l *Ledger) RecordSynthesis(s signal.Synthesis, at time.Time) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := uuid.NewString()
	query, args, err := sq.Insert("syntheses").
		Columns("id", "candidate_id", "source", "one_liner", "confidence",
			"flag_for_review", "supporting_context", "created_at").
		Values(id, s.CandidateID, string(s.Source), s.OneLiner, string(s.Confidence),
			s.FlagForReview, s.SupportingContext, at.UTC()).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build synthesis insert: %w", err)
	}
	if _, err := l.db.Exec(query, args...); err != nil {
		return "", fmt.Errorf("failed to record synthesis: %w", err)
	}
	return id, nil
}

// RecentSyntheses returns the newest rows for a candidate, newest first.
func (l *Ledger) RecentSyntheses(candidateID string, limit int) ([]SynthesisRow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit <= 0 {
		limit = 10
	}
	query, args, err := sq.Select("id", "candidate_id", "source", "one_liner",
		"confidence", "flag_for_review", "supporting_context", "created_at").
		From("syntheses").
		Where(sq.Eq{"candidate_id": candidateID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build synthesis select: %w", err)
	}

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query syntheses: %w", err)
	}
	defer rows.Close()

	var out []SynthesisRow
	for rows.Next() {
		var row SynthesisRow
		var source, confidence string
		if err := rows.Scan(&row.ID, &row.Synthesis.CandidateID, &source,
			&row.Synthesis.OneLiner, &confidence, &row.Synthesis.FlagForReview,
			&row.Synthesis.SupportingContext, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan synthesis row: %w", err)
		}
		row.Synthesis.Source = signal.Source(source)
		row.Synthesis.Confidence = signal.Confidence(confidence)
		out = append(out, row)
	}
	return out, rows.Err()
}

// AlreadyNudged reports whether the candidate was nudged at or after
// since. Used to suppress duplicate nudges within the cooldown window.
func (l *Ledger) AlreadyNudged(candidateID string, since time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	query, args, err := sq.Select("COUNT(1)").
		From("nudges").
		Where(sq.Eq{"candidate_id": candidateID}).
		Where(sq.GtOrEq{"nudged_at": since.UTC()}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build nudge select: %w", err)
	}

	var count int
	if err := l.db.QueryRow(query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to query nudges: %w", err)
	}
	return count > 0, nil
}

// MarkNudged records that a nudge went out for the candidate.
func (l *Ledger) MarkNudged(candidateID string, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	query, args, err := sq.Insert("nudges").
		Columns("candidate_id", "nudged_at").
		Values(candidateID, at.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build nudge insert: %w", err)
	}
	if _, err := l.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to record nudge: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}
