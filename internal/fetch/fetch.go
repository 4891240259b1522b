// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads GenBank flatfiles from the NCBI nucleotide
// database via the E-utilities efetch endpoint, one file per accession.
// Failures append to a shared log and never halt the batch.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gruenlab/plastburst/internal/genbank"
	"github.com/gruenlab/plastburst/internal/httputil"
	"github.com/gruenlab/plastburst/pkg/types"
)

// ErrorLogName is the shared append-only log capturing per-accession fetch
// failures, kept alongside the downloaded flatfiles.
const ErrorLogName = "fetch-errors.log"

// eutilsBase is the efetch endpoint. Declared as a var so tests can
// substitute an httptest server.
var eutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"

const toolName = "plastburst"

// BatchResult holds the outcome of a batch fetch run.
type BatchResult struct {
	Fetched int
	Skipped int
	Failed  int
	Genomes []types.Genome
}

// Total returns the total number of accessions processed.
func (r BatchResult) Total() int {
	return r.Fetched + r.Skipped + r.Failed
}

// HasFailures reports whether any accessions failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// FetchOne downloads a single accession to GenomesDir/<stem>.gb. If the
// flatfile already exists on disk, the download is skipped without a
// network call. The downloaded body is parsed before the file is kept:
// efetch answers 200 with an error document for unknown accessions, and
// such a body must not masquerade as a genome.
func FetchOne(ctx context.Context, client *http.Client, accession string, cfg types.FetchConfig, w io.Writer) (genome *types.Genome, skipped bool, err error) {
	acc, err := Normalize(accession)
	if err != nil {
		return nil, false, err
	}

	outPath := filepath.Join(cfg.GenomesDir, Stem(acc)+".gb")
	if _, err := os.Stat(outPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", Stem(acc))
		g, readErr := genomeFromFile(outPath)
		if readErr != nil {
			g = &types.Genome{Accession: Stem(acc), Path: outPath}
		}
		return g, true, nil
	}

	if err := os.MkdirAll(cfg.GenomesDir, 0o755); err != nil {
		return nil, false, fmt.Errorf("creating genomes directory: %w", err)
	}

	fmt.Fprintf(w, "fetching: %s\n", acc)

	if err := download(ctx, client, efetchURL(acc, cfg), outPath, cfg); err != nil {
		return nil, false, fmt.Errorf("fetching %s: %w", acc, err)
	}

	g, err := genomeFromFile(outPath)
	if err != nil {
		os.Remove(outPath)
		return nil, false, fmt.Errorf("fetching %s: response was not a GenBank record: %w", acc, err)
	}
	return g, false, nil
}

// Batch processes accessions in order, printing per-item status to w and
// returning a summary. Failures append one line to the shared error log
// and processing continues; a delay separates consecutive requests so the
// loop stays under NCBI's rate limit.
func Batch(ctx context.Context, client *http.Client, accessions []string, cfg types.FetchConfig, w io.Writer) (BatchResult, error) {
	var result BatchResult
	for i, acc := range accessions {
		if i > 0 && cfg.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(cfg.RequestDelay):
			}
		}

		genome, wasSkipped, err := FetchOne(ctx, client, acc, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", acc, err)
			if logErr := appendErrorLog(cfg.GenomesDir, acc, err); logErr != nil {
				fmt.Fprintf(w, "warning: could not write error log: %v\n", logErr)
			}
			result.Failed++
			continue
		}
		if wasSkipped {
			result.Skipped++
		} else {
			result.Fetched++
		}
		result.Genomes = append(result.Genomes, *genome)
	}
	fmt.Fprintf(w, "\nBatch summary: %d fetched, %d skipped, %d failed (total: %d)\n",
		result.Fetched, result.Skipped, result.Failed, result.Total())
	return result, nil
}

// efetchURL builds the efetch request for one accession. The API key and
// contact email ride along when configured; NCBI grants 10 requests/second
// to keyed clients.
func efetchURL(accession string, cfg types.FetchConfig) string {
	q := url.Values{}
	q.Set("db", "nuccore")
	q.Set("id", accession)
	q.Set("rettype", "gb")
	q.Set("retmode", "text")
	q.Set("tool", toolName)
	if cfg.APIKey != "" {
		q.Set("api_key", cfg.APIKey)
	}
	if cfg.Email != "" {
		q.Set("email", cfg.Email)
	}
	return eutilsBase + "?" + q.Encode()
}

// download fetches url to destPath using a temporary file, renamed into
// place only on success so an interrupted run never leaves a torn file.
func download(ctx context.Context, client *http.Client, url, destPath string, cfg types.FetchConfig) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("efetch returned HTTP %d", resp.StatusCode)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// appendErrorLog adds one timestamped line to the shared error log. The
// file is opened in append mode and never truncated.
func appendErrorLog(dir, accession string, fetchErr error) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	fh, err := os.OpenFile(filepath.Join(dir, ErrorLogName),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer fh.Close()

	_, err = fmt.Fprintf(fh, "%s\t%s\t%v\n",
		time.Now().UTC().Format(time.RFC3339), accession, fetchErr)
	return err
}

// genomeFromFile parses a flatfile into its catalog record.
func genomeFromFile(path string) (*types.Genome, error) {
	rec, err := genbank.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return &types.Genome{
		Accession:  rec.Accession,
		Version:    rec.Version,
		Organism:   rec.Organism,
		Definition: rec.Definition,
		Length:     rec.Length,
		Path:       path,
		FetchedAt:  time.Now().UTC(),
	}, nil
}
