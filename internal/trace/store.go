// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/trace/store.go
// Summary: SQLite store for recorded touch gestures.
//
// A gesture is the scroller configuration at touch start plus every sample
// delivered to it until release. The drag replays exactly. The decay after
// release is re-stepped from the release sample at a fixed frame interval, so
// it approximates the live fling, which ran on the wall clock.

package trace

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/framegrace/texelscroll/texelui/touch"
	_ "modernc.org/sqlite"
)

// ErrGestureNotFound is returned by Load for an unknown id.
var ErrGestureNotFound = errors.New("trace: gesture not found")

var debugLog = log.New(io.Discard, "", log.LstdFlags)

// SetVerboseLogging toggles trace debug output. Enabled output goes wherever
// the standard logger writes at the time of the call.
func SetVerboseLogging(enable bool) {
	if enable {
		debugLog.SetOutput(log.Writer())
	} else {
		debugLog.SetOutput(io.Discard)
	}
}

// Sample is one touch sample of a gesture.
type Sample struct {
	Phase     touch.Phase
	Contact   string
	X, Y      float64
	Timestamp float64
}

// Gesture is a recorded press-drag-release sequence.
type Gesture struct {
	ID         int64
	Label      string
	Horizontal bool
	MaxX, MaxY float64
	// OffsetX and OffsetY are the scroller offsets when the gesture began.
	OffsetX, OffsetY float64
	RecordedAt       time.Time
	Samples          []Sample
}

// Summary describes a stored gesture without its samples.
type Summary struct {
	ID         int64
	Label      string
	Horizontal bool
	RecordedAt time.Time
	Samples    int
	Duration   float64
}

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS gestures (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    label       TEXT NOT NULL DEFAULT '',
    horizontal  INTEGER NOT NULL DEFAULT 0,
    max_x       REAL NOT NULL,
    max_y       REAL NOT NULL,
    offset_x    REAL NOT NULL DEFAULT 0,
    offset_y    REAL NOT NULL DEFAULT 0,
    recorded_at INTEGER NOT NULL          -- UnixNano
);

CREATE TABLE IF NOT EXISTS samples (
    gesture_id INTEGER NOT NULL REFERENCES gestures(id) ON DELETE CASCADE,
    seq        INTEGER NOT NULL,
    phase      INTEGER NOT NULL,
    contact    TEXT NOT NULL,
    x          REAL NOT NULL,
    y          REAL NOT NULL,
    timestamp  REAL NOT NULL,             -- milliseconds
    PRIMARY KEY (gesture_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_gestures_recorded ON gestures(recorded_at);
`

// Store persists gestures in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the trace database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=busy_timeout(2000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := db.Exec("INSERT OR REPLACE INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to record schema version: %w", err)
	}

	debugLog.Printf("Trace: opened %s", path)
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes g and its samples in one transaction and sets g.ID.
func (s *Store) Save(g *Gesture) (int64, error) {
	if g.RecordedAt.IsZero() {
		g.RecordedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO gestures (label, horizontal, max_x, max_y, offset_x, offset_y, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.Label, boolToInt(g.Horizontal), g.MaxX, g.MaxY, g.OffsetX, g.OffsetY, g.RecordedAt.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert gesture: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("gesture id: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO samples (gesture_id, seq, phase, contact, x, y, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare samples: %w", err)
	}
	defer stmt.Close()

	for i, smp := range g.Samples {
		if _, err := stmt.Exec(id, i, int(smp.Phase), smp.Contact, smp.X, smp.Y, smp.Timestamp); err != nil {
			return 0, fmt.Errorf("insert sample %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	g.ID = id
	debugLog.Printf("Trace: saved gesture %d (%d samples)", id, len(g.Samples))
	return id, nil
}

// Load reads a gesture and its samples.
func (s *Store) Load(id int64) (*Gesture, error) {
	g := &Gesture{ID: id}
	var (
		horizontal int
		recorded   int64
	)
	err := s.db.QueryRow(
		`SELECT label, horizontal, max_x, max_y, offset_x, offset_y, recorded_at
		 FROM gestures WHERE id = ?`, id,
	).Scan(&g.Label, &horizontal, &g.MaxX, &g.MaxY, &g.OffsetX, &g.OffsetY, &recorded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load %d: %w", id, ErrGestureNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %d: %w", id, err)
	}
	g.Horizontal = horizontal != 0
	g.RecordedAt = time.Unix(0, recorded)

	rows, err := s.db.Query(
		`SELECT phase, contact, x, y, timestamp FROM samples
		 WHERE gesture_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("load samples %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			smp   Sample
			phase int
		)
		if err := rows.Scan(&phase, &smp.Contact, &smp.X, &smp.Y, &smp.Timestamp); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		smp.Phase = touch.Phase(phase)
		g.Samples = append(g.Samples, smp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load samples %d: %w", id, err)
	}
	return g, nil
}

// List returns up to limit gestures, newest first. A limit <= 0 lists all.
func (s *Store) List(limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT g.id, g.label, g.horizontal, g.recorded_at,
		       COUNT(s.seq), COALESCE(MAX(s.timestamp) - MIN(s.timestamp), 0.0)
		FROM gestures g
		LEFT JOIN samples s ON s.gesture_id = g.id
		GROUP BY g.id
		ORDER BY g.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list gestures: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum        Summary
			horizontal int
			recorded   int64
		)
		if err := rows.Scan(&sum.ID, &sum.Label, &horizontal, &recorded, &sum.Samples, &sum.Duration); err != nil {
			return nil, fmt.Errorf("scan gesture: %w", err)
		}
		sum.Horizontal = horizontal != 0
		sum.RecordedAt = time.Unix(0, recorded)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Prune keeps the newest keep gestures and deletes the rest.
func (s *Store) Prune(keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.Exec(
		`DELETE FROM gestures WHERE id NOT IN (SELECT id FROM gestures ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		debugLog.Printf("Trace: pruned %d gestures", n)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
