// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists genome metadata in SQLite and builds a
// full-text index over organism names and record definitions.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/gruenlab/plastburst/pkg/types"
)

const dbFile = "plastburst.db"

// Store manages the genome catalog SQLite database.
type Store struct {
	db         *sql.DB
	catalogDir string
	genomesDir string
	maxResults int
}

// NewStore opens or creates the catalog database at
// CatalogDir/plastburst.db, creating the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.CatalogDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.CatalogDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		catalogDir: cfg.CatalogDir,
		genomesDir: cfg.GenomesDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS genomes (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			accession TEXT NOT NULL UNIQUE,
			version TEXT,
			organism TEXT,
			definition TEXT,
			length INTEGER,
			path TEXT,
			fetched_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_genomes_organism ON genomes(organism)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			accession TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			stage TEXT NOT NULL,
			started_at TEXT NOT NULL,
			summary TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='genomes_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE genomes_fts USING fts5(organism, definition, content=genomes, content_rowid=rowid)`,
			`CREATE TRIGGER genomes_ai AFTER INSERT ON genomes BEGIN
				INSERT INTO genomes_fts(rowid, organism, definition) VALUES (new.rowid, new.organism, new.definition);
			END`,
			`CREATE TRIGGER genomes_ad AFTER DELETE ON genomes BEGIN
				INSERT INTO genomes_fts(genomes_fts, rowid, organism, definition) VALUES('delete', old.rowid, old.organism, old.definition);
			END`,
			`CREATE TRIGGER genomes_au AFTER UPDATE ON genomes BEGIN
				INSERT INTO genomes_fts(genomes_fts, rowid, organism, definition) VALUES('delete', old.rowid, old.organism, old.definition);
				INSERT INTO genomes_fts(rowid, organism, definition) VALUES (new.rowid, new.organism, new.definition);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Record upserts a single genome, as done by the fetch stage after each
// successful download.
func (s *Store) Record(ctx context.Context, g types.Genome) error {
	fetchedAt := ""
	if !g.FetchedAt.IsZero() {
		fetchedAt = g.FetchedAt.UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO genomes (accession, version, organism, definition, length, path, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(accession) DO UPDATE SET
			version=excluded.version, organism=excluded.organism,
			definition=excluded.definition, length=excluded.length,
			path=excluded.path, fetched_at=excluded.fetched_at`,
		g.Accession, g.Version, g.Organism, g.Definition, g.Length, g.Path, fetchedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting genome %s: %w", g.Accession, err)
	}
	return nil
}

// RecordRun stores one pipeline run with its summary line and returns
// the run ID.
func (s *Store) RecordRun(ctx context.Context, stage, summary string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, stage, started_at, summary) VALUES (?, ?, ?, ?)`,
		id, stage, time.Now().UTC().Format(time.RFC3339), summary,
	)
	if err != nil {
		return "", fmt.Errorf("recording %s run: %w", stage, err)
	}
	return id, nil
}

// List returns all cataloged genomes ordered by accession.
func (s *Store) List(ctx context.Context) ([]types.Genome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT accession, version, organism, definition, length, path, fetched_at
		 FROM genomes ORDER BY accession`)
	if err != nil {
		return nil, fmt.Errorf("listing genomes: %w", err)
	}
	defer rows.Close()
	return scanGenomes(rows)
}

// Search runs an FTS5 query over organism names and definitions,
// ranked by relevance.
func (s *Store) Search(ctx context.Context, query string, maxResults int) ([]types.Genome, error) {
	if maxResults <= 0 {
		maxResults = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.accession, g.version, g.organism, g.definition, g.length, g.path, g.fetched_at
		 FROM genomes_fts
		 JOIN genomes g ON g.rowid = genomes_fts.rowid
		 WHERE genomes_fts MATCH ?
		 ORDER BY genomes_fts.rank
		 LIMIT ?`, query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("searching genomes: %w", err)
	}
	defer rows.Close()
	return scanGenomes(rows)
}

func scanGenomes(rows *sql.Rows) ([]types.Genome, error) {
	var genomes []types.Genome
	for rows.Next() {
		var (
			g         types.Genome
			fetchedAt string
		)
		if err := rows.Scan(&g.Accession, &g.Version, &g.Organism,
			&g.Definition, &g.Length, &g.Path, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scanning genome row: %w", err)
		}
		if fetchedAt != "" {
			if t, err := time.Parse(time.RFC3339, fetchedAt); err == nil {
				g.FetchedAt = t
			}
		}
		genomes = append(genomes, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating genome rows: %w", err)
	}
	return genomes, nil
}
