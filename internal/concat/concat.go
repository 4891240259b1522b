// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package concat converts the aligned per-region nucleotide matrices to
// NEXUS and joins them into one partitioned supermatrix. Sequence
// identifiers are region-qualified on disk; concatenation keys on the
// genome name left after stripping the region prefix, so each genome
// contributes one supermatrix row.
package concat

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/gruenlab/plastburst/internal/seqio"
	"github.com/gruenlab/plastburst/pkg/types"
)

const alignedSuffix = ".aligned.fasta"

// Summary holds the outcome of a concatenation run.
type Summary struct {
	Regions int
	Skipped int
	Taxa    int
	Columns int
}

// Run converts every nucl_*.aligned.fasta in cfg.OutputDir to a
// per-region NEXUS file and writes the concatenated supermatrix in both
// NEXUS and FASTA form. Regions whose alignment cannot be read or is
// ragged are skipped with a warning.
func Run(cfg types.ExtractConfig, log *zap.SugaredLogger, w io.Writer) (Summary, error) {
	paths, err := alignedPaths(cfg.OutputDir)
	if err != nil {
		return Summary{}, err
	}
	if len(paths) == 0 {
		return Summary{}, fmt.Errorf("no aligned matrices in %s", cfg.OutputDir)
	}

	var (
		summary    Summary
		alignments []seqio.Alignment
	)
	for _, path := range paths {
		name := regionName(path)
		aln, err := readRegionAlignment(path, name)
		if err != nil {
			log.Warnw("skipping region", "region", name, "error", err)
			fmt.Fprintf(w, "skipped: %s (%v)\n", name, err)
			summary.Skipped++
			continue
		}

		nexusPath := strings.TrimSuffix(path, alignedSuffix) + ".aligned.nexus"
		if err := seqio.WriteNexusFile(nexusPath, aln, seqio.DNA); err != nil {
			return Summary{}, fmt.Errorf("writing NEXUS for %s: %w", name, err)
		}
		alignments = append(alignments, aln)
		summary.Regions++
	}
	if len(alignments) == 0 {
		return Summary{}, fmt.Errorf("no region alignment could be read")
	}

	combined, err := seqio.Concat(alignments)
	if err != nil {
		return Summary{}, fmt.Errorf("concatenating %d alignments: %w", len(alignments), err)
	}
	summary.Taxa = len(combined.Recs)
	if len(combined.Recs) > 0 {
		summary.Columns = len(combined.Recs[0].Seq)
	}

	stem := filepath.Join(cfg.OutputDir, fmt.Sprintf("nucl_%dconcat.aligned", len(alignments)))
	fh, err := os.Create(stem + ".nexus")
	if err != nil {
		return Summary{}, fmt.Errorf("creating supermatrix: %w", err)
	}
	writeErr := seqio.WriteNexusConcat(fh, combined, seqio.DNA)
	if closeErr := fh.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return Summary{}, fmt.Errorf("writing supermatrix: %w", writeErr)
	}
	if err := seqio.WriteFastaFile(stem+".fasta", combined.Recs); err != nil {
		return Summary{}, fmt.Errorf("writing supermatrix FASTA: %w", err)
	}

	fmt.Fprintf(w, "\nSupermatrix: %d region(s), %d taxa, %d columns (%d region(s) skipped)\n",
		summary.Regions, summary.Taxa, summary.Columns, summary.Skipped)
	return summary, nil
}

// readRegionAlignment loads one aligned matrix and strips the region
// prefix from its sequence identifiers.
func readRegionAlignment(path, name string) (seqio.Alignment, error) {
	recs, err := seqio.ReadFastaFile(path)
	if err != nil {
		return seqio.Alignment{}, err
	}
	for i := range recs {
		recs[i].ID = strings.TrimPrefix(recs[i].ID, name+"_")
	}
	aln := seqio.Alignment{Name: name, Recs: recs}
	if err := aln.Validate(); err != nil {
		return seqio.Alignment{}, err
	}
	return aln, nil
}

func regionName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(strings.TrimPrefix(base, "nucl_"), alignedSuffix)
}

func alignedPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading output directory %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "nucl_") || !strings.HasSuffix(name, alignedSuffix) {
			continue
		}
		// The supermatrix from an earlier run is not a region.
		if strings.Contains(name, "concat") {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}
