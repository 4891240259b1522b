// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gruenlab/plastburst/internal/extract"
	"github.com/gruenlab/plastburst/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract annotated regions from the downloaded genomes",
	Long: `Extract parses every GenBank flatfile in the genomes directory and
pulls out one sequence matrix per region across all genomes. --mode
selects the region class: cds (coding regions, also emitted as
proteins), igs (intergenic spacers between adjacent genes), or int
(introns).

Each surviving region is written as an unaligned FASTA matrix to the
output directory, along with a regions.yaml manifest of per-region
statistics.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("mode", "cds", "region class to extract: cds, igs, or int")
	extractCmd.Flags().String("genomes-dir", "genomes", "directory of GenBank flatfiles")
	extractCmd.Flags().String("output-dir", "output", "directory for region matrices")
	extractCmd.Flags().String("file-ext", ".gb", "flatfile extension to scan for")
	extractCmd.Flags().Int("min-length", 3, "minimum sequence length to collect")
	extractCmd.Flags().Int("min-taxa", 1, "minimum number of genomes a region must occur in")
	extractCmd.Flags().StringSlice("exclude", []string{"rps12"}, "gene names to drop after collection")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	modeStr, _ := cmd.Flags().GetString("mode")
	mode, err := extract.ParseMode(modeStr)
	if err != nil {
		return err
	}

	genomesDir, _ := cmd.Flags().GetString("genomes-dir")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	fileExt, _ := cmd.Flags().GetString("file-ext")
	minLength, _ := cmd.Flags().GetInt("min-length")
	minTaxa, _ := cmd.Flags().GetInt("min-taxa")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")

	cfg := types.ExtractConfig{
		GenomesDir: genomesDir,
		OutputDir:  outputDir,
		FileExt:    fileExt,
		MinLength:  minLength,
		MinTaxa:    minTaxa,
		Exclude:    exclude,
	}

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	_, err = extract.Run(cfg, mode, log, os.Stdout)
	return err
}
