// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package align

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gruenlab/plastburst/internal/seqio"
	"github.com/gruenlab/plastburst/pkg/types"
)

const (
	unalignSuffix = ".unalign.fasta"
	alignedSuffix = ".aligned.fasta"
)

// BatchResult holds the outcome of a batch alignment run.
type BatchResult struct {
	Aligned int
	Skipped int
	Failed  int
}

// Total returns the total number of regions processed.
func (r BatchResult) Total() int {
	return r.Aligned + r.Skipped + r.Failed
}

// HasFailures reports whether any regions failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// region is one alignment job. Coding regions carry a protein matrix and
// are aligned at the protein level, then back-translated.
type region struct {
	name     string
	nuclPath string
	protPath string
}

// Batch aligns every unaligned region matrix in cfg.OutputDir. Regions
// with an existing aligned matrix are skipped; a failed region is
// reported and the batch continues. Up to cfg.Jobs regions run
// concurrently.
func Batch(ctx context.Context, cfg types.AlignConfig, log *zap.SugaredLogger, w io.Writer) (BatchResult, error) {
	mafft := NewMafft(cfg.MafftPath, cfg.Threads)
	return batch(ctx, cfg, mafft, log, w)
}

func batch(ctx context.Context, cfg types.AlignConfig, mafft *Mafft, log *zap.SugaredLogger, w io.Writer) (BatchResult, error) {
	if err := mafft.Available(); err != nil {
		return BatchResult{}, err
	}

	regions, err := findRegions(cfg.OutputDir)
	if err != nil {
		return BatchResult{}, err
	}
	if len(regions) == 0 {
		return BatchResult{}, fmt.Errorf("no unaligned matrices in %s", cfg.OutputDir)
	}

	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = 1
	}

	var (
		mu     sync.Mutex
		result BatchResult
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, reg := range regions {
		reg := reg
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			alignedNucl := filepath.Join(cfg.OutputDir, "nucl_"+reg.name+alignedSuffix)
			if _, err := os.Stat(alignedNucl); err == nil {
				mu.Lock()
				result.Skipped++
				fmt.Fprintf(w, "skipped: %s (already aligned)\n", reg.name)
				mu.Unlock()
				return nil
			}

			err := alignRegion(mafft, cfg.OutputDir, reg, alignedNucl)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				fmt.Fprintf(w, "failed:  %s (%v)\n", reg.name, err)
				log.Warnw("alignment failed", "region", reg.name, "error", err)
				return nil
			}
			result.Aligned++
			fmt.Fprintf(w, "aligned: %s\n", reg.name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	fmt.Fprintf(w, "\nAlignment summary: %d aligned, %d skipped, %d failed (total: %d)\n",
		result.Aligned, result.Skipped, result.Failed, result.Total())
	return result, nil
}

// alignRegion aligns one region. A coding region is aligned on its
// protein matrix and the nucleotide matrix is threaded through the
// protein alignment; any other region is aligned on nucleotides
// directly.
func alignRegion(mafft *Mafft, dir string, reg region, alignedNucl string) error {
	if reg.protPath == "" {
		return mafft.Align(reg.nuclPath, alignedNucl)
	}

	alignedProt := filepath.Join(dir, "prot_"+reg.name+alignedSuffix)
	if err := mafft.Align(reg.protPath, alignedProt); err != nil {
		return err
	}

	prot, err := seqio.ReadFastaFile(alignedProt)
	if err != nil {
		return err
	}
	nucl, err := seqio.ReadFastaFile(reg.nuclPath)
	if err != nil {
		return err
	}
	backed, err := BackTranslate(prot, nucl)
	if err != nil {
		return fmt.Errorf("back-translating %s: %w", reg.name, err)
	}
	return seqio.WriteFastaFile(alignedNucl, backed)
}

// findRegions pairs the nucl_ matrices in dir with their prot_
// counterparts, sorted by region name.
func findRegions(dir string) ([]region, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading output directory %s: %w", dir, err)
	}

	var regions []region
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "nucl_") || !strings.HasSuffix(name, unalignSuffix) {
			continue
		}
		regName := strings.TrimSuffix(strings.TrimPrefix(name, "nucl_"), unalignSuffix)
		reg := region{name: regName, nuclPath: filepath.Join(dir, name)}

		protPath := filepath.Join(dir, "prot_"+regName+unalignSuffix)
		if _, err := os.Stat(protPath); err == nil {
			reg.protPath = protPath
		}
		regions = append(regions, reg)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].name < regions[j].name })
	return regions, nil
}
