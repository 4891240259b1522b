// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gruenlab/plastburst/internal/genbank"
	"github.com/gruenlab/plastburst/pkg/types"
)

// SyncSummary holds counts from a catalog sync run.
type SyncSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of flatfiles processed.
func (s SyncSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Sync walks the genomes directory and brings the catalog up to date.
// File modification times detect new, changed, and unchanged flatfiles
// so unchanged genomes are not re-parsed.
func (s *Store) Sync(ctx context.Context, w io.Writer) (SyncSummary, error) {
	entries, err := os.ReadDir(s.genomesDir)
	if err != nil {
		return SyncSummary{}, fmt.Errorf("reading genomes directory %s: %w", s.genomesDir, err)
	}

	var summary SyncSummary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".gb") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		accession := strings.TrimSuffix(entry.Name(), ".gb")
		path := filepath.Join(s.genomesDir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", accession, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE accession = ?`, accession,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", accession)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		rec, err := genbank.ParseFile(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", accession, err)
			summary.Failed++
			continue
		}

		g := types.Genome{
			Accession:  rec.Accession,
			Version:    rec.Version,
			Organism:   rec.Organism,
			Definition: rec.Definition,
			Length:     rec.Length,
			Path:       path,
			FetchedAt:  info.ModTime().UTC(),
		}
		if g.Accession == "" {
			g.Accession = accession
		}

		if err := s.syncGenome(ctx, g, accession, modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", accession, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%s)\n", accession, g.Organism)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s (%s)\n", accession, g.Organism)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Indexed > 0 || summary.Updated > 0 {
		if err := s.ExportYAML(ctx); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}

func (s *Store) syncGenome(ctx context.Context, g types.Genome, accession, modTime string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	fetchedAt := g.FetchedAt.UTC().Format(time.RFC3339)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO genomes (accession, version, organism, definition, length, path, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(accession) DO UPDATE SET
			version=excluded.version, organism=excluded.organism,
			definition=excluded.definition, length=excluded.length,
			path=excluded.path, fetched_at=excluded.fetched_at`,
		g.Accession, g.Version, g.Organism, g.Definition, g.Length, g.Path, fetchedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting genome: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (accession, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(accession) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		accession, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}
