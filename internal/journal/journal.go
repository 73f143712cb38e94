// Package journal keeps a local, queryable record of accepted events
// in a SQLite database. It is an audit trail, not a delivery queue:
// nothing is ever replayed to the collector.
package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite" // pure-Go sqlite driver

	"github.com/quartzmill/crashgate/internal/event"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id            TEXT PRIMARY KEY,
	ts            INTEGER NOT NULL,
	severity      TEXT NOT NULL,
	severity_rank INTEGER NOT NULL,
	message       TEXT NOT NULL,
	tags          TEXT,
	error_type    TEXT,
	error_message TEXT
);
CREATE INDEX IF NOT EXISTS events_ts ON events(ts);
`

// Journal is a SQLite-backed event record. Safe for concurrent use.
type Journal struct {
	db *sql.DB
}

// Entry is one journaled event, as returned by Tail.
type Entry struct {
	ID           string
	Timestamp    time.Time
	Severity     event.Severity
	Message      string
	Tags         map[string]string
	ErrorType    string
	ErrorMessage string
}

// Open creates or opens the journal database at path.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: init schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Record inserts one event.
func (j *Journal) Record(ev event.Event) error {
	var tags []byte
	if len(ev.Tags) > 0 {
		var err error
		tags, err = json.Marshal(ev.Tags)
		if err != nil {
			return fmt.Errorf("journal: marshal tags: %w", err)
		}
	}

	var errType, errMsg string
	if ev.Exception != nil {
		errType = ev.Exception.Type
		errMsg = ev.Exception.Message
	}

	_, err := j.db.Exec(
		`INSERT INTO events (id, ts, severity, severity_rank, message, tags, error_type, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID,
		ev.Timestamp.UnixNano(),
		ev.Severity.String(),
		int(ev.Severity),
		ev.Message,
		string(tags),
		errType,
		errMsg,
	)
	if err != nil {
		return fmt.Errorf("journal: insert event %s: %w", ev.ID, err)
	}
	return nil
}

// Observer adapts the journal for Router.Subscribe. Record errors are
// reported to stderr and otherwise ignored (fire-and-forget).
func (j *Journal) Observer() func(event.Event) {
	return func(ev event.Event) {
		if err := j.Record(ev); err != nil {
			fmt.Fprintf(os.Stderr, "journal: %v\n", err)
		}
	}
}

// Tail returns up to n most recent entries at least as severe as
// minSev, in chronological order.
func (j *Journal) Tail(n int, minSev event.Severity) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT id, ts, severity_rank, message, tags, error_type, error_message
		 FROM events
		 WHERE severity_rank <= ?
		 ORDER BY ts DESC LIMIT ?`,
		int(minSev), n,
	)
	if err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts int64
		var tags string
		var rank int
		if err := rows.Scan(&e.ID, &ts, &rank, &e.Message, &tags, &e.ErrorType, &e.ErrorMessage); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		e.Severity = event.Severity(rank)
		e.Timestamp = time.Unix(0, ts).UTC()
		if tags != "" {
			if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
				return nil, fmt.Errorf("journal: bad tags for %s: %w", e.ID, err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: rows: %w", err)
	}

	// Newest-first from the query; callers read oldest-first.
	for i, k := 0, len(entries)-1; i < k; i, k = i+1, k-1 {
		entries[i], entries[k] = entries[k], entries[i]
	}
	return entries, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
