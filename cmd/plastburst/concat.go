// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gruenlab/plastburst/internal/concat"
	"github.com/gruenlab/plastburst/pkg/types"
)

var concatCmd = &cobra.Command{
	Use:   "concat",
	Short: "Concatenate the aligned regions into a partitioned supermatrix",
	Long: `Concat converts each aligned nucleotide matrix in the output
directory to NEXUS and joins them all into one supermatrix, written in
both NEXUS (with a charset per region) and FASTA form. A genome missing
from a region is padded with '?' over that region's columns. Regions
whose alignment cannot be read are skipped.`,
	RunE: runConcat,
}

func init() {
	concatCmd.Flags().String("output-dir", "output", "directory of aligned matrices")

	rootCmd.AddCommand(concatCmd)
}

func runConcat(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output-dir")

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	_, err = concat.Run(types.ExtractConfig{OutputDir: outputDir}, log, os.Stdout)
	return err
}
