package snapshot

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/worldbox/worldbox/internal/world"
)

// Archive stores the initial and final snapshots of named runs in a
// sqlite database.
type Archive struct {
	db *sql.DB
}

// Run is one archived execution: the world before and after a program
// ran.
type Run struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	Initial   world.Snapshot
	Final     world.Snapshot
}

// OpenArchive opens or creates the archive at path, creating parent
// directories as needed.
func OpenArchive(path string) (*Archive, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	db.SetMaxOpenConns(1)

	a := &Archive{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// Close releases the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) migrate() error {
	_, err := a.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			initial_state TEXT NOT NULL,
			final_state TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_name ON runs(name);
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate archive: %w", err)
	}
	return nil
}

// SaveRun archives a run and returns its identifier.
func (a *Archive) SaveRun(name string, initial, final world.Snapshot) (int64, error) {
	initialJSON, err := Encode(initial)
	if err != nil {
		return 0, err
	}
	finalJSON, err := Encode(final)
	if err != nil {
		return 0, err
	}
	result, err := a.db.Exec(
		`INSERT INTO runs (name, initial_state, final_state) VALUES (?, ?, ?)`,
		name, string(initialJSON), string(finalJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}
	return id, nil
}

// LoadRun retrieves an archived run by identifier.
func (a *Archive) LoadRun(id int64) (*Run, error) {
	row := a.db.QueryRow(
		`SELECT id, name, created_at, initial_state, final_state FROM runs WHERE id = ?`, id,
	)
	var run Run
	var createdAt, initialJSON, finalJSON string
	err := row.Scan(&run.ID, &run.Name, &createdAt, &initialJSON, &finalJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no archived run with id %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	run.CreatedAt = parseArchiveTime(createdAt)
	if run.Initial, err = Decode([]byte(initialJSON)); err != nil {
		return nil, err
	}
	if run.Final, err = Decode([]byte(finalJSON)); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns archived run metadata, newest first, without the
// snapshot payloads.
func (a *Archive) ListRuns() ([]Run, error) {
	rows, err := a.db.Query(
		`SELECT id, name, created_at FROM runs ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var createdAt string
		if err := rows.Scan(&run.ID, &run.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to list runs: %w", err)
		}
		run.CreatedAt = parseArchiveTime(createdAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// parseArchiveTime reads sqlite's CURRENT_TIMESTAMP text format. A value
// that does not parse yields the zero time rather than an error.
func parseArchiveTime(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}
