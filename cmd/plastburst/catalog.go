// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gruenlab/plastburst/internal/catalog"
	"github.com/gruenlab/plastburst/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the genome catalog (sync, list, search, export)",
	Long: `Catalog maintains a SQLite index of the downloaded genomes with
full-text search over organism names and record definitions. The fetch
stage records downloads automatically; sync brings the catalog up to
date with the genomes directory after manual changes.`,
}

func init() {
	catalogCmd.PersistentFlags().String("catalog-dir", "catalog", "directory for the catalog database")
	catalogCmd.PersistentFlags().String("genomes-dir", "genomes", "directory of GenBank flatfiles")

	catalogSearchCmd.Flags().Int("max-results", 0, "maximum number of results (default 20)")

	catalogCmd.AddCommand(catalogSyncCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	rootCmd.AddCommand(catalogCmd)
}

func openStore(cmd *cobra.Command) (*catalog.Store, error) {
	catalogDir, _ := cmd.Flags().GetString("catalog-dir")
	genomesDir, _ := cmd.Flags().GetString("genomes-dir")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return catalog.NewStore(types.CatalogConfig{
		CatalogDir: catalogDir,
		GenomesDir: genomesDir,
		MaxResults: maxResults,
	})
}

// --- sync subcommand ---

var catalogSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Index the genomes directory into the catalog",
	Long: `Sync walks the genomes directory and indexes every flatfile into the
catalog. Unchanged flatfiles are skipped on subsequent runs; changed
ones are re-parsed and updated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		summary, err := store.Sync(context.Background(), os.Stdout)
		if err != nil {
			return err
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d flatfile(s) failed indexing", summary.Failed)
		}
		return nil
	},
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cataloged genomes",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		genomes, err := store.List(context.Background())
		if err != nil {
			return err
		}
		printGenomes(genomes)
		return nil
	},
}

// --- search subcommand ---

var catalogSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over organism names and definitions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		maxResults, _ := cmd.Flags().GetInt("max-results")
		genomes, err := store.Search(context.Background(), args[0], maxResults)
		if err != nil {
			return err
		}
		printGenomes(genomes)
		return nil
	},
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the catalog to export.yaml and export.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		if err := store.ExportYAML(ctx); err != nil {
			return err
		}
		return store.ExportJSON(ctx)
	},
}

func printGenomes(genomes []types.Genome) {
	if len(genomes) == 0 {
		fmt.Println("No genomes found.")
		return
	}

	fmt.Printf("%-12s  %-14s  %-30s  %9s\n", "Accession", "Version", "Organism", "Length")
	for _, g := range genomes {
		organism := g.Organism
		if len(organism) > 30 {
			organism = organism[:27] + "..."
		}
		fmt.Printf("%-12s  %-14s  %-30s  %9d\n", g.Accession, g.Version, organism, g.Length)
	}
	fmt.Printf("\n%d genome(s)\n", len(genomes))
}
