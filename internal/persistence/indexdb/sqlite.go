// Package indexdb keeps a small SQLite read-model of generation runs. It is
// a secondary index: losing it never loses world data, since any district can
// be regenerated from its seed and catalog digests.
package indexdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"blockforge.dev/internal/gen/catalogs"
	"blockforge.dev/internal/persistence/snapshot"
)

type SQLiteIndex struct {
	db *sql.DB

	ch   chan RunRow
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

// RunRow is one recorded generation run.
type RunRow struct {
	DistrictID   string
	Seed         int64
	Width        int
	Depth        int
	Faction      string
	Blocks       int
	Spawns       int
	Digest       string
	SnapshotPath string
	CreatedAt    string
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan RunRow, 1024),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			district_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			width INTEGER NOT NULL,
			depth INTEGER NOT NULL,
			faction TEXT,
			blocks INTEGER NOT NULL,
			spawns INTEGER NOT NULL,
			digest TEXT NOT NULL,
			snapshot_path TEXT,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_district ON runs(district_id, seed);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) loop() {
	for row := range s.ch {
		_, err := s.db.Exec(
			`INSERT INTO runs (district_id, seed, width, depth, faction, blocks, spawns, digest, snapshot_path, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			row.DistrictID, row.Seed, row.Width, row.Depth, row.Faction,
			row.Blocks, row.Spawns, row.Digest, row.SnapshotPath, row.CreatedAt,
		)
		if err != nil {
			// Index writes are best effort.
			continue
		}
	}
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// RecordRun enqueues one run row. Non-blocking: rows are dropped if the
// writer falls behind, the snapshot file remains the source of truth.
func (s *SQLiteIndex) RecordRun(row RunRow) {
	if s == nil || s.closed.Load() {
		return
	}
	if row.CreatedAt == "" {
		row.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	select {
	case s.ch <- row:
	default:
	}
}

// RecordSnapshotRun records a run from its snapshot form.
func (s *SQLiteIndex) RecordSnapshotRun(path string, snap snapshot.SnapshotV1) {
	if s == nil {
		return
	}
	s.RecordRun(RunRow{
		DistrictID:   snap.Header.DistrictID,
		Seed:         snap.Seed,
		Width:        snap.Width,
		Depth:        snap.Depth,
		Faction:      snap.Faction,
		Blocks:       len(snap.Blocks),
		Spawns:       len(snap.Spawns),
		Digest:       snap.Digest,
		SnapshotPath: path,
	})
}

// UpsertCatalogs stores the active catalog digests.
func (s *SQLiteIndex) UpsertCatalogs(cats *catalogs.Catalogs) error {
	if s == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	for name, digest := range map[string]string{
		"blocks":  cats.Blocks.Digest,
		"content": cats.Content.Digest,
	} {
		_, err := s.db.Exec(
			`INSERT INTO catalogs (name, digest, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET digest=excluded.digest, updated_at=excluded.updated_at`,
			name, digest, now,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteIndex) ListRuns(ctx context.Context, limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT district_id, seed, width, depth, faction, blocks, spawns, digest, snapshot_path, created_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.DistrictID, &r.Seed, &r.Width, &r.Depth, &r.Faction,
			&r.Blocks, &r.Spawns, &r.Digest, &r.SnapshotPath, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
