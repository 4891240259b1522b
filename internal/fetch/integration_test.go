// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build integration

package fetch

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gruenlab/plastburst/internal/genbank"
	"github.com/gruenlab/plastburst/pkg/types"
)

// TestFetchOneLive downloads a real plastome record from NCBI. Run with
// -tags integration; needs network access.
func TestFetchOneLive(t *testing.T) {
	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   120 * time.Second,
			UserAgent: "plastburst-test/0.1",
		},
		GenomesDir:   t.TempDir(),
		RequestDelay: 350 * time.Millisecond,
	}
	client := &http.Client{Timeout: cfg.Timeout}

	// Arabidopsis thaliana chloroplast, ~154 kb.
	genome, skipped, err := FetchOne(context.Background(), client, "NC_000932", cfg, os.Stderr)
	if err != nil {
		t.Fatal(err)
	}
	if skipped {
		t.Fatal("fresh directory, nothing should be skipped")
	}
	if genome.Organism != "Arabidopsis thaliana" {
		t.Errorf("Organism = %q", genome.Organism)
	}

	rec, err := genbank.ParseFile(filepath.Join(cfg.GenomesDir, "NC_000932.gb"))
	if err != nil {
		t.Fatal(err)
	}
	if rec.Length < 100000 {
		t.Errorf("suspiciously short plastome: %d bp", rec.Length)
	}
}
