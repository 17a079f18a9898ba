// Package runlog keeps a local ledger of publish runs: which pages were
// edited, which images were uploaded with which hash. The last recorded image
// hash lets a rerun skip uploads without asking the wiki.
package runlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type Log struct {
	db *sql.DB
}

func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Single-writer batch tool.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma: %w", err)
		}
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			registries INTEGER NOT NULL DEFAULT 0,
			edits INTEGER NOT NULL DEFAULT 0,
			uploads INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS uploads (
			image TEXT PRIMARY KEY,
			sha1 TEXT NOT NULL,
			run_id TEXT NOT NULL,
			uploaded_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS edits (
			page TEXT NOT NULL,
			run_id TEXT NOT NULL,
			summary TEXT NOT NULL,
			edited_at TEXT NOT NULL
		);`,
	}
	for _, s := range schema {
		if _, err := db.Exec(s); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("schema: %w", err)
		}
	}
	return &Log{db: db}, nil
}

func (l *Log) Close() error {
	return l.db.Close()
}

func (l *Log) BeginRun(id string, startedAt time.Time) error {
	_, err := l.db.Exec(`INSERT INTO runs(id, started_at) VALUES(?, ?)`,
		id, startedAt.UTC().Format(time.RFC3339))
	return err
}

func (l *Log) FinishRun(id string, finishedAt time.Time, registries, edits, uploads int) error {
	_, err := l.db.Exec(`UPDATE runs SET finished_at=?, registries=?, edits=?, uploads=? WHERE id=?`,
		finishedAt.UTC().Format(time.RFC3339), registries, edits, uploads, id)
	return err
}

// LastImageSHA1 returns the hash this ledger last saw uploaded for an image.
func (l *Log) LastImageSHA1(image string) (string, bool, error) {
	var sha string
	err := l.db.QueryRow(`SELECT sha1 FROM uploads WHERE image=?`, image).Scan(&sha)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return sha, true, nil
}

func (l *Log) RecordUpload(image, sha1, runID string, at time.Time) error {
	_, err := l.db.Exec(`INSERT OR REPLACE INTO uploads(image, sha1, run_id, uploaded_at) VALUES(?, ?, ?, ?)`,
		image, sha1, runID, at.UTC().Format(time.RFC3339))
	return err
}

func (l *Log) RecordEdit(page, runID, summary string, at time.Time) error {
	_, err := l.db.Exec(`INSERT INTO edits(page, run_id, summary, edited_at) VALUES(?, ?, ?, ?)`,
		page, runID, summary, at.UTC().Format(time.RFC3339))
	return err
}
