// Package journal records engine events in SQLite. The default DSN is an
// in-memory database, so the journal is an observability log rather than
// engine state.
package journal

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/cigol/internal/resonance"
)

// MemoryDSN keeps the journal in a private in-memory database.
const MemoryDSN = ":memory:"

// Entry is one recorded event.
type Entry struct {
	ID       string    `db:"id" json:"id"`
	Kind     string    `db:"kind" json:"kind"`
	Index    int       `db:"node_index" json:"index"`
	X        float64   `db:"x" json:"x"`
	Y        float64   `db:"y" json:"y"`
	Z        float64   `db:"z" json:"z"`
	Score    float64   `db:"score" json:"score"`
	Count    int       `db:"input_count" json:"count"`
	Nodes    int       `db:"nodes" json:"nodes"`
	Seed     int64     `db:"seed" json:"seed"`
	Detail   string    `db:"detail" json:"detail"`
	Recorded time.Time `db:"recorded_at" json:"recorded_at"`
}

// DefaultRetention is the number of newest events kept by default.
const DefaultRetention = 10_000

// Journal wraps a SQLite connection.
type Journal struct {
	conn   *sqlx.DB
	now    func() time.Time
	retain int
}

// Option configures a Journal.
type Option func(*Journal)

// WithRetention keeps only the newest n events. n <= 0 keeps everything.
func WithRetention(n int) Option {
	return func(j *Journal) { j.retain = n }
}

// Open opens or creates the journal at dsn. An empty dsn means MemoryDSN.
// Events beyond DefaultRetention are pruned unless overridden.
func Open(dsn string, opts ...Option) (*Journal, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// A second connection to ":memory:" would see an empty database.
	conn.SetMaxOpenConns(1)

	j := &Journal{conn: conn, now: time.Now, retain: DefaultRetention}
	for _, opt := range opts {
		opt(j)
	}
	if err := j.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.conn.Close()
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		kind TEXT NOT NULL,
		node_index INTEGER NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		z REAL NOT NULL,
		score REAL NOT NULL,
		input_count INTEGER NOT NULL,
		nodes INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		detail TEXT NOT NULL,
		recorded_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
	`
	_, err := j.conn.Exec(schema)
	return err
}

// Record stores e and returns its ID. Events older than the retention
// window are pruned in the same transaction.
func (j *Journal) Record(e resonance.Event) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("event id: %w", err)
	}

	tx, err := j.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO events
		(id, kind, node_index, x, y, z, score, input_count, nodes, seed, detail, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), string(e.Kind), e.Index, e.Point.X, e.Point.Y, e.Point.Z,
		e.Score, e.Count, e.Nodes, int64(e.Seed), e.Detail, j.now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert event %s: %w", e.Kind, err)
	}

	if j.retain > 0 {
		_, err = tx.Exec("DELETE FROM events WHERE seq <= (SELECT MAX(seq) FROM events) - ?", j.retain)
		if err != nil {
			return "", fmt.Errorf("prune events: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit event: %w", err)
	}
	return id.String(), nil
}

// Len returns the number of stored events.
func (j *Journal) Len() (int, error) {
	var n int
	if err := j.conn.Get(&n, "SELECT COUNT(*) FROM events"); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// Observe records e, logging failures instead of returning them.
func (j *Journal) Observe(e resonance.Event) {
	if _, err := j.Record(e); err != nil {
		slog.Warn("journal write failed", "kind", e.Kind, "error", err)
	}
}

// Recent returns up to limit events, newest first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	entries := []Entry{}
	err := j.conn.Select(&entries, `SELECT id, kind, node_index, x, y, z, score,
		input_count, nodes, seed, detail, recorded_at
		FROM events ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}
	return entries, nil
}

// Counts returns the number of recorded events per kind.
func (j *Journal) Counts() (map[string]int, error) {
	var rows []struct {
		Kind string `db:"kind"`
		N    int    `db:"n"`
	}
	if err := j.conn.Select(&rows, "SELECT kind, COUNT(*) AS n FROM events GROUP BY kind"); err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Kind] = r.N
	}
	return counts, nil
}
