// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package align runs multiple sequence alignment over the per-region
// matrices: MAFFT on protein matrices with back-translation to
// nucleotides for coding regions, MAFFT directly on nucleotides for
// spacers and introns.
package align

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/gruenlab/plastburst/internal/seqio"
)

// runner abstracts command execution for testing.
type runner interface {
	LookPath(file string) (string, error)
	Run(name string, args []string, stdout, stderr io.Writer) error
}

// osRunner is the production runner backed by os/exec.
type osRunner struct{}

func (o *osRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osRunner) Run(name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// reversedPrefix is what MAFFT --adjustdirection prepends to the name of
// any sequence it reverse-complemented. The pipeline keys sequences by
// identifier across stages, so the prefix is stripped from the output.
const reversedPrefix = "_R_"

// Mafft wraps the mafft binary.
type Mafft struct {
	path    string
	threads int
	exec    runner
}

// NewMafft returns a Mafft invoking path with the given thread count.
// An empty path means "mafft" resolved via PATH; threads <= 0 lets
// MAFFT pick.
func NewMafft(path string, threads int) *Mafft {
	return newMafft(path, threads, &osRunner{})
}

func newMafft(path string, threads int, exec runner) *Mafft {
	if path == "" {
		path = "mafft"
	}
	if threads <= 0 {
		threads = -1 // mafft's own "auto"
	}
	return &Mafft{path: path, threads: threads, exec: exec}
}

// Available checks that the mafft binary can be found.
func (m *Mafft) Available() error {
	if _, err := m.exec.LookPath(m.path); err != nil {
		return fmt.Errorf("mafft not found (looked for %q): %w", m.path, err)
	}
	return nil
}

// Align aligns the FASTA matrix at inputPath and writes the aligned
// matrix to outputPath. Sequences MAFFT flipped to the reverse strand
// keep their original identifiers.
func (m *Mafft) Align(inputPath, outputPath string) error {
	args := []string{
		"--auto",
		"--adjustdirection",
		"--thread", strconv.Itoa(m.threads),
		"--quiet",
		inputPath,
	}

	var stdout, stderr bytes.Buffer
	if err := m.exec.Run(m.path, args, &stdout, &stderr); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("mafft failed on %s: %w: %s", inputPath, err, msg)
		}
		return fmt.Errorf("mafft failed on %s: %w", inputPath, err)
	}

	recs, err := seqio.ReadFasta(&stdout)
	if err != nil {
		return fmt.Errorf("parsing mafft output for %s: %w", inputPath, err)
	}
	for i := range recs {
		recs[i].ID = strings.TrimPrefix(recs[i].ID, reversedPrefix)
	}
	return seqio.WriteFastaFile(outputPath, recs)
}
