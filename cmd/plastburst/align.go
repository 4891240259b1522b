// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gruenlab/plastburst/internal/align"
	"github.com/gruenlab/plastburst/pkg/types"
)

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Align each extracted region matrix with MAFFT",
	Long: `Align runs MAFFT over every unaligned region matrix in the output
directory. Coding regions are aligned on their protein matrices and the
nucleotide matrices are back-translated through the protein alignment;
spacers and introns are aligned on nucleotides directly. Regions that
already have an aligned matrix are skipped, and a failed region does
not stop the batch.

MAFFT must be installed and reachable; set --mafft-path if it is not
on PATH.`,
	RunE: runAlign,
}

func init() {
	alignCmd.Flags().String("output-dir", "output", "directory of region matrices")
	alignCmd.Flags().String("mafft-path", "", "MAFFT binary (default: mafft via PATH)")
	alignCmd.Flags().Int("jobs", 0, "regions aligned concurrently (default: number of CPUs)")
	alignCmd.Flags().Int("threads", 1, "threads per MAFFT invocation")

	rootCmd.AddCommand(alignCmd)
}

func runAlign(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	mafftPath, _ := cmd.Flags().GetString("mafft-path")
	jobs, _ := cmd.Flags().GetInt("jobs")
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	threads, _ := cmd.Flags().GetInt("threads")

	cfg := types.AlignConfig{
		OutputDir: outputDir,
		MafftPath: mafftPath,
		Jobs:      jobs,
		Threads:   threads,
	}

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	result, err := align.Batch(context.Background(), cfg, log, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d region(s) failed alignment", result.Failed)
	}
	return nil
}
