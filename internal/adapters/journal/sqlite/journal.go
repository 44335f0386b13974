package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bnema/otctl/internal/domain"
	"github.com/bnema/otctl/internal/ports"
	_ "github.com/mattn/go-sqlite3"
)

const MemoryDSN = ":memory:"

// Journal stores one row per request a session sent to the robot.
type Journal struct {
	db *sql.DB
}

var _ ports.CommandJournal = (*Journal)(nil)

// Open opens or creates the journal database at path.
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, errors.New("journal path is empty")
	}
	if path != MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal database: %w", err)
	}
	if path == MemoryDSN {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	journal := &Journal{db: db}
	if err := journal.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate journal database: %w", err)
	}

	return journal, nil
}

func (j *Journal) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS journal_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			operation TEXT NOT NULL,
			command_type TEXT NOT NULL DEFAULT '',
			status_code INTEGER NOT NULL,
			ok INTEGER NOT NULL,
			remote_status TEXT NOT NULL DEFAULT '',
			recorded_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_entries_run ON journal_entries(run_id, id)`,
	}

	for _, m := range migrations {
		if _, err := j.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) Record(ctx context.Context, entry domain.JournalEntry) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO journal_entries (run_id, operation, command_type, status_code, ok, remote_status, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(entry.RunID), entry.Operation, entry.CommandType, entry.StatusCode, entry.OK, entry.RemoteStatus,
		entry.RecordedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

// List returns the entries of runID in the order they were recorded.
func (j *Journal) List(ctx context.Context, runID domain.RunID) ([]domain.JournalEntry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT run_id, operation, command_type, status_code, ok, remote_status, recorded_at
		 FROM journal_entries WHERE run_id = ? ORDER BY id`,
		string(runID))
	if err != nil {
		return nil, fmt.Errorf("query journal entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		var (
			entry      domain.JournalEntry
			run        string
			recordedAt int64
		)
		if err := rows.Scan(&run, &entry.Operation, &entry.CommandType, &entry.StatusCode, &entry.OK, &entry.RemoteStatus, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entry.RunID = domain.RunID(run)
		entry.RecordedAt = time.UnixMilli(recordedAt).UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal entries: %w", err)
	}

	return entries, nil
}
