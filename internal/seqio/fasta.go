// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package seqio reads and writes the sequence matrix formats the pipeline
// exchanges with MAFFT and downstream phylogenetics tools: FASTA for
// matrices and NEXUS for alignments and the concatenated supermatrix.
package seqio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// fastaWidth is the line width for wrapped FASTA sequence output.
const fastaWidth = 60

// Record is one sequence with its FASTA identifier.
type Record struct {
	ID  string
	Seq string
}

// WriteFasta writes records in FASTA format, sequences wrapped at 60
// columns.
func WriteFasta(w io.Writer, recs []Record) error {
	for _, rec := range recs {
		if _, err := fmt.Fprintf(w, ">%s\n", rec.ID); err != nil {
			return err
		}
		for i := 0; i < len(rec.Seq); i += fastaWidth {
			end := i + fastaWidth
			if end > len(rec.Seq) {
				end = len(rec.Seq)
			}
			if _, err := fmt.Fprintln(w, rec.Seq[i:end]); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteFastaFile writes records to path via a temporary file and rename.
func WriteFastaFile(path string, recs []Record) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".seqio-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	writeErr := WriteFasta(tmp, recs)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", path, closeErr)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s: %w", path, err)
	}
	return nil
}

// ReadFasta parses FASTA records. Sequence lines are concatenated;
// the ID is the header up to the first whitespace.
func ReadFasta(r io.Reader) ([]Record, error) {
	var (
		recs []Record
		cur  *Record
		seq  strings.Builder
	)
	flush := func() {
		if cur != nil {
			cur.Seq = seq.String()
			recs = append(recs, *cur)
			seq.Reset()
		}
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			header := strings.TrimPrefix(line, ">")
			id := header
			if i := strings.IndexAny(header, " \t"); i >= 0 {
				id = header[:i]
			}
			cur = &Record{ID: id}
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("sequence data before first FASTA header")
		}
		seq.WriteString(line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading FASTA: %w", err)
	}
	flush()
	if len(recs) == 0 {
		return nil, fmt.Errorf("no FASTA records found")
	}
	return recs, nil
}

// ReadFastaFile parses the FASTA file at path.
func ReadFastaFile(path string) ([]Record, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer fh.Close()

	recs, err := ReadFasta(fh)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return recs, nil
}
