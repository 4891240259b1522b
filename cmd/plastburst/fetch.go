// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/gruenlab/plastburst/internal/catalog"
	"github.com/gruenlab/plastburst/internal/fetch"
	"github.com/gruenlab/plastburst/internal/secrets"
	"github.com/gruenlab/plastburst/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 350 * time.Millisecond
	defaultUserAgent = "plastburst/0.1"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [accession-list-file]",
	Short: "Download GenBank flatfiles from NCBI for a list of accessions",
	Long: `Fetch reads accession numbers from a text file (one per line, blank
lines and # comments ignored) and downloads each record from the NCBI
nucleotide database into the genomes directory. Accessions that already
have a flatfile on disk are skipped. A failed accession is appended to
` + fetch.ErrorLogName + ` and the batch continues with the next one.

Successful downloads are recorded in the genome catalog. NCBI allows 3
requests per second without an API key and 10 with one; put the key in
.secrets/` + secrets.KeyNCBIAPIKey + ` or pass --api-key to raise the limit.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().Duration("delay", 0, "delay between consecutive efetch requests (default 350ms)")
	fetchCmd.Flags().String("genomes-dir", "genomes", "directory for downloaded flatfiles")
	fetchCmd.Flags().String("catalog-dir", "catalog", "directory for the genome catalog database")
	fetchCmd.Flags().Bool("no-catalog", false, "skip recording downloads in the catalog")
	fetchCmd.Flags().String("api-key", "", "NCBI E-utilities API key")
	fetchCmd.Flags().String("email", "", "contact email sent with NCBI requests")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	accessions, err := fetch.ReadList(args[0])
	if err != nil {
		return err
	}
	if len(accessions) == 0 {
		return fmt.Errorf("no accessions found in %s", args[0])
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}
	genomesDir, _ := cmd.Flags().GetString("genomes-dir")
	apiKey, _ := cmd.Flags().GetString("api-key")
	email, _ := cmd.Flags().GetString("email")

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		GenomesDir:   genomesDir,
		RequestDelay: delay,
		APIKey:       secretDefault(secrets.KeyNCBIAPIKey, apiKey),
		Email:        secretDefault(secrets.KeyNCBIEmail, email),
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	ctx := context.Background()
	result, err := fetch.Batch(ctx, client, accessions, cfg, os.Stdout)
	if err != nil {
		return err
	}

	if noCatalog, _ := cmd.Flags().GetBool("no-catalog"); !noCatalog {
		if err := recordInCatalog(ctx, cmd, result); err != nil {
			fmt.Fprintf(os.Stderr, "warning: catalog update failed: %v\n", err)
		}
	}

	if result.HasFailures() {
		return fmt.Errorf("%d accession(s) failed fetching (see %s)",
			result.Failed, filepath.Join(genomesDir, fetch.ErrorLogName))
	}
	return nil
}

func recordInCatalog(ctx context.Context, cmd *cobra.Command, result fetch.BatchResult) error {
	catalogDir, _ := cmd.Flags().GetString("catalog-dir")
	genomesDir, _ := cmd.Flags().GetString("genomes-dir")

	store, err := catalog.NewStore(types.CatalogConfig{
		CatalogDir: catalogDir,
		GenomesDir: genomesDir,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	for _, g := range result.Genomes {
		if err := store.Record(ctx, g); err != nil {
			return err
		}
	}
	summary := fmt.Sprintf("%d fetched, %d skipped, %d failed",
		result.Fetched, result.Skipped, result.Failed)
	_, err = store.RecordRun(ctx, "fetch", summary)
	return err
}
