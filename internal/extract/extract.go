// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls comparable regions out of annotated plastid
// genomes: coding sequences, intergenic spacers, or introns, one
// unaligned FASTA matrix per region across all input genomes.
package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/gruenlab/plastburst/internal/genbank"
	"github.com/gruenlab/plastburst/internal/seqio"
	"github.com/gruenlab/plastburst/pkg/types"
)

// ManifestName is the per-run region manifest written next to the matrices.
const ManifestName = "regions.yaml"

// Mode selects which region class to extract.
type Mode string

const (
	ModeCDS    Mode = "cds"
	ModeIGS    Mode = "igs"
	ModeIntron Mode = "int"
)

// ParseMode validates a --mode flag value.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeCDS:
		return ModeCDS, nil
	case ModeIGS:
		return ModeIGS, nil
	case ModeIntron:
		return ModeIntron, nil
	}
	return "", fmt.Errorf("unknown extraction mode %q (want cds, igs, or int)", s)
}

// Kind returns the manifest region kind for the mode.
func (m Mode) Kind() types.RegionKind {
	switch m {
	case ModeIGS:
		return types.KindIGS
	case ModeIntron:
		return types.KindIntron
	default:
		return types.KindCDS
	}
}

// Summary holds the outcome of an extraction run.
type Summary struct {
	Genomes   int
	Regions   int
	Sequences int
}

// Run extracts regions from every flatfile in cfg.GenomesDir, applies the
// filter passes, and writes per-region unaligned FASTA matrices plus the
// regions.yaml manifest to cfg.OutputDir. Unparseable flatfiles are
// skipped with a warning; the run fails only when nothing was collected.
func Run(cfg types.ExtractConfig, mode Mode, log *zap.SugaredLogger, w io.Writer) (Summary, error) {
	paths, err := flatfilePaths(cfg.GenomesDir, cfg.FileExt)
	if err != nil {
		return Summary{}, err
	}
	if len(paths) == 0 {
		return Summary{}, fmt.Errorf("no %s flatfiles in %s", cfg.FileExt, cfg.GenomesDir)
	}

	nucl := NewRegionSet()
	var prot *RegionSet
	if mode == ModeCDS {
		prot = NewRegionSet()
	}

	var summary Summary
	for _, path := range paths {
		rec, err := genbank.ParseFile(path)
		if err != nil {
			log.Warnw("skipping unparseable flatfile", "path", path, "error", err)
			continue
		}
		log.Infow("extracting annotations", "record", rec.Name, "mode", mode)

		switch mode {
		case ModeCDS:
			CollectCDS(rec, nucl, prot, cfg.MinLength, log)
		case ModeIGS:
			CollectIGS(rec, nucl, cfg.MinLength, log)
		case ModeIntron:
			CollectIntrons(rec, nucl, log)
		}
		summary.Genomes++
	}

	if nucl.Len() == 0 {
		return Summary{}, fmt.Errorf("no regions collected from %d genome(s)", summary.Genomes)
	}

	Dedupe(nucl)
	if prot != nil {
		Dedupe(prot)
	}
	FilterMinTaxa(nucl, prot, cfg.MinTaxa, log)
	RemoveORFs(nucl, prot)
	RemoveExcluded(nucl, prot, cfg.Exclude, mode, log)

	if nucl.Len() == 0 {
		return Summary{}, fmt.Errorf("all regions were filtered out")
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating output directory: %w", err)
	}

	for _, region := range nucl.Names() {
		recs := toFasta(nucl.Get(region))
		path := filepath.Join(cfg.OutputDir, "nucl_"+region+".unalign.fasta")
		if err := seqio.WriteFastaFile(path, recs); err != nil {
			return Summary{}, fmt.Errorf("writing matrix for %s: %w", region, err)
		}
		summary.Regions++
		summary.Sequences += len(recs)
	}
	if prot != nil {
		for _, region := range prot.Names() {
			path := filepath.Join(cfg.OutputDir, "prot_"+region+".unalign.fasta")
			if err := seqio.WriteFastaFile(path, toFasta(prot.Get(region))); err != nil {
				return Summary{}, fmt.Errorf("writing protein matrix for %s: %w", region, err)
			}
		}
	}

	if err := writeManifest(cfg.OutputDir, nucl, mode.Kind()); err != nil {
		return Summary{}, err
	}

	fmt.Fprintf(w, "\nExtracted %d region(s), %d sequence(s) from %d genome(s)\n",
		summary.Regions, summary.Sequences, summary.Genomes)
	return summary, nil
}

// flatfilePaths lists the flatfiles to process, sorted by name so runs
// are deterministic.
func flatfilePaths(dir, ext string) ([]string, error) {
	if ext == "" {
		ext = ".gb"
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading genomes directory %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func toFasta(recs []SeqRecord) []seqio.Record {
	out := make([]seqio.Record, len(recs))
	for i, rec := range recs {
		out[i] = seqio.Record{ID: rec.ID, Seq: rec.Seq}
	}
	return out
}

// writeManifest records the surviving regions and their per-region stats.
func writeManifest(dir string, nucl *RegionSet, kind types.RegionKind) error {
	var regions []types.Region
	for _, name := range nucl.Names() {
		recs := nucl.Get(name)
		min, max := len(recs[0].Seq), len(recs[0].Seq)
		for _, rec := range recs[1:] {
			if len(rec.Seq) < min {
				min = len(rec.Seq)
			}
			if len(rec.Seq) > max {
				max = len(rec.Seq)
			}
		}
		regions = append(regions, types.Region{
			Name:   name,
			Kind:   kind,
			Taxa:   len(recs),
			MinLen: min,
			MaxLen: max,
		})
	}

	data, err := yaml.Marshal(regions)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, ManifestName), data, 0o644)
}
