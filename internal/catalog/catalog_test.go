// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/gruenlab/plastburst/pkg/types"
)

// --- test helpers ---

func testSetup(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()
	genomesDir := filepath.Join(tmpDir, "genomes")
	if err := os.MkdirAll(genomesDir, 0o755); err != nil {
		t.Fatal(err)
	}

	store, err := NewStore(types.CatalogConfig{
		CatalogDir: filepath.Join(tmpDir, "catalog"),
		GenomesDir: genomesDir,
		MaxResults: 20,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return store, genomesDir
}

const flatfileTemplate = `LOCUS       RECNAME               36 bp    DNA     circular PLN 09-NOV-2023
DEFINITION  SPECIES chloroplast, complete genome.
ACCESSION   RECNAME
VERSION     RECNAME.1
SOURCE      chloroplast SPECIES
  ORGANISM  SPECIES
FEATURES             Location/Qualifiers
     source          1..36
ORIGIN
        1 atggcttcta ctgctcttca acgtcgttaa ggggac
//
`

func writeFlatfile(t *testing.T, dir, accession, organism string) string {
	t.Helper()
	content := strings.ReplaceAll(flatfileTemplate, "RECNAME", accession)
	content = strings.ReplaceAll(content, "SPECIES", organism)
	path := filepath.Join(dir, accession+".gb")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// --- Record / List ---

func TestRecordAndList(t *testing.T) {
	store, _ := testSetup(t)
	ctx := context.Background()

	genomes := []types.Genome{
		{Accession: "NC_000932", Version: "NC_000932.1", Organism: "Arabidopsis thaliana",
			Definition: "Arabidopsis thaliana chloroplast, complete genome.", Length: 154478,
			FetchedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)},
		{Accession: "MH000001", Version: "MH000001.1", Organism: "Nicotiana tabacum", Length: 155943},
	}
	for _, g := range genomes {
		if err := store.Record(ctx, g); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("List returned %d genomes, want 2", len(got))
	}
	// Ordered by accession.
	if got[0].Accession != "MH000001" || got[1].Accession != "NC_000932" {
		t.Errorf("unexpected order: %s, %s", got[0].Accession, got[1].Accession)
	}
	if !got[1].FetchedAt.Equal(genomes[0].FetchedAt) {
		t.Errorf("FetchedAt = %v, want %v", got[1].FetchedAt, genomes[0].FetchedAt)
	}
}

func TestRecordUpsert(t *testing.T) {
	store, _ := testSetup(t)
	ctx := context.Background()

	g := types.Genome{Accession: "NC_000932", Organism: "Arabidopsis thaliana", Length: 100}
	if err := store.Record(ctx, g); err != nil {
		t.Fatal(err)
	}
	g.Length = 154478
	if err := store.Record(ctx, g); err != nil {
		t.Fatal(err)
	}

	got, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("List returned %d genomes, want 1", len(got))
	}
	if got[0].Length != 154478 {
		t.Errorf("Length = %d, want 154478", got[0].Length)
	}
}

// --- Search ---

func TestSearch(t *testing.T) {
	store, _ := testSetup(t)
	ctx := context.Background()

	records := []types.Genome{
		{Accession: "NC_000932", Organism: "Arabidopsis thaliana",
			Definition: "Arabidopsis thaliana chloroplast, complete genome."},
		{Accession: "MH000001", Organism: "Nicotiana tabacum",
			Definition: "Nicotiana tabacum chloroplast, complete genome."},
	}
	for _, g := range records {
		if err := store.Record(ctx, g); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.Search(ctx, "Nicotiana", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Accession != "MH000001" {
		t.Fatalf("Search(Nicotiana) = %+v, want MH000001", got)
	}

	got, err = store.Search(ctx, "chloroplast", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("Search(chloroplast) returned %d genomes, want 2", len(got))
	}

	// Updates keep the FTS index in sync via triggers.
	records[1].Organism = "Solanum lycopersicum"
	records[1].Definition = "Solanum lycopersicum chloroplast, complete genome."
	if err := store.Record(ctx, records[1]); err != nil {
		t.Fatal(err)
	}
	got, err = store.Search(ctx, "Nicotiana", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("Search(Nicotiana) after update returned %d genomes, want 0", len(got))
	}
}

// --- Sync ---

func TestSyncIndexesFlatfiles(t *testing.T) {
	store, genomesDir := testSetup(t)
	ctx := context.Background()

	writeFlatfile(t, genomesDir, "NC_000932", "Arabidopsis thaliana")
	writeFlatfile(t, genomesDir, "MH000001", "Nicotiana tabacum")

	var buf bytes.Buffer
	summary, err := store.Sync(ctx, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Indexed != 2 || summary.Failed != 0 {
		t.Fatalf("summary = %+v, want 2 indexed", summary)
	}

	got, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("List returned %d genomes, want 2", len(got))
	}
	if got[1].Organism != "Arabidopsis thaliana" {
		t.Errorf("Organism = %q", got[1].Organism)
	}
	if got[1].Length != 36 {
		t.Errorf("Length = %d, want 36", got[1].Length)
	}
}

func TestSyncSkipsUnchanged(t *testing.T) {
	store, genomesDir := testSetup(t)
	ctx := context.Background()

	path := writeFlatfile(t, genomesDir, "NC_000932", "Arabidopsis thaliana")

	if _, err := store.Sync(ctx, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	summary, err := store.Sync(ctx, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Skipped != 1 || summary.Indexed != 0 {
		t.Fatalf("summary = %+v, want 1 skipped", summary)
	}

	// Touching the file forces a re-index as an update.
	newTime := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, newTime, newTime); err != nil {
		t.Fatal(err)
	}
	summary, err = store.Sync(ctx, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Updated != 1 {
		t.Fatalf("summary = %+v, want 1 updated", summary)
	}
}

func TestSyncContinuesAfterBadFlatfile(t *testing.T) {
	store, genomesDir := testSetup(t)
	ctx := context.Background()

	writeFlatfile(t, genomesDir, "NC_000932", "Arabidopsis thaliana")
	if err := os.WriteFile(filepath.Join(genomesDir, "broken.gb"), []byte("nope\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	summary, err := store.Sync(ctx, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Indexed != 1 || summary.Failed != 1 {
		t.Fatalf("summary = %+v, want 1 indexed 1 failed", summary)
	}
	if !strings.Contains(buf.String(), "failed  broken") {
		t.Errorf("output missing failure line: %q", buf.String())
	}
}

// --- runs ---

func TestRecordRun(t *testing.T) {
	store, _ := testSetup(t)
	ctx := context.Background()

	id, err := store.RecordRun(ctx, "fetch", "2 fetched, 0 skipped, 1 failed")
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("RecordRun returned empty id")
	}

	var stage, summary string
	err = store.db.QueryRowContext(ctx,
		`SELECT stage, summary FROM runs WHERE id = ?`, id).Scan(&stage, &summary)
	if err != nil {
		t.Fatal(err)
	}
	if stage != "fetch" || !strings.Contains(summary, "2 fetched") {
		t.Errorf("stage = %q, summary = %q", stage, summary)
	}
}

// --- export ---

func TestExportYAML(t *testing.T) {
	store, genomesDir := testSetup(t)
	ctx := context.Background()

	writeFlatfile(t, genomesDir, "NC_000932", "Arabidopsis thaliana")
	if _, err := store.Sync(ctx, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(store.catalogDir, "export.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var genomes []types.Genome
	if err := yaml.Unmarshal(data, &genomes); err != nil {
		t.Fatal(err)
	}
	if len(genomes) != 1 || genomes[0].Accession != "NC_000932" {
		t.Fatalf("export = %+v", genomes)
	}
}

func TestExportJSON(t *testing.T) {
	store, _ := testSetup(t)
	ctx := context.Background()

	if err := store.Record(ctx, types.Genome{Accession: "NC_000932"}); err != nil {
		t.Fatal(err)
	}
	if err := store.ExportJSON(ctx); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(store.catalogDir, "export.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "NC_000932") {
		t.Errorf("export.json missing accession: %s", data)
	}
}
