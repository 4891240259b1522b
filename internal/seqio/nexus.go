// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package seqio

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// DataType selects the NEXUS datatype declaration.
type DataType string

const (
	DNA     DataType = "dna"
	Protein DataType = "protein"
)

// Alignment is a set of equal-length sequences under a region name.
type Alignment struct {
	Name string
	Recs []Record
}

// Width returns the alignment column count.
func (a Alignment) Width() int {
	if len(a.Recs) == 0 {
		return 0
	}
	return len(a.Recs[0].Seq)
}

// Validate checks that the alignment is rectangular and non-empty.
func (a Alignment) Validate() error {
	if len(a.Recs) == 0 {
		return fmt.Errorf("alignment %s is empty", a.Name)
	}
	width := len(a.Recs[0].Seq)
	for _, rec := range a.Recs {
		if len(rec.Seq) != width {
			return fmt.Errorf("alignment %s is ragged: %s has %d columns, expected %d",
				a.Name, rec.ID, len(rec.Seq), width)
		}
	}
	return nil
}

// WriteNexus writes a single alignment as a NEXUS data block.
func WriteNexus(w io.Writer, aln Alignment, dt DataType) error {
	if err := aln.Validate(); err != nil {
		return err
	}
	labelWidth := 0
	for _, rec := range aln.Recs {
		if len(rec.ID) > labelWidth {
			labelWidth = len(rec.ID)
		}
	}

	var b strings.Builder
	b.WriteString("#NEXUS\n\n")
	b.WriteString("begin data;\n")
	fmt.Fprintf(&b, "    dimensions ntax=%d nchar=%d;\n", len(aln.Recs), aln.Width())
	fmt.Fprintf(&b, "    format datatype=%s missing=? gap=-;\n", dt)
	b.WriteString("    matrix\n")
	for _, rec := range aln.Recs {
		fmt.Fprintf(&b, "    %-*s %s\n", labelWidth, rec.ID, rec.Seq)
	}
	b.WriteString("    ;\nend;\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteNexusFile writes a single alignment to path.
func WriteNexusFile(path string, aln Alignment, dt DataType) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	writeErr := WriteNexus(fh, aln, dt)
	closeErr := fh.Close()
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}

// Charset is one partition of a concatenated alignment, 1-based inclusive.
type Charset struct {
	Name  string
	First int
	Last  int
}

// Concatenated is the supermatrix built from multiple region alignments.
type Concatenated struct {
	Recs     []Record
	Charsets []Charset
}

// Concat joins region alignments into a supermatrix. Taxa are the union
// across alignments in first-seen order; a taxon absent from a region is
// padded with '?' over that region's columns.
func Concat(alignments []Alignment) (*Concatenated, error) {
	if len(alignments) == 0 {
		return nil, fmt.Errorf("no alignments to concatenate")
	}

	var taxa []string
	index := map[string]int{}
	for _, aln := range alignments {
		if err := aln.Validate(); err != nil {
			return nil, err
		}
		for _, rec := range aln.Recs {
			if _, ok := index[rec.ID]; !ok {
				index[rec.ID] = len(taxa)
				taxa = append(taxa, rec.ID)
			}
		}
	}

	parts := make([]strings.Builder, len(taxa))
	var (
		charsets []Charset
		offset   int
	)
	for _, aln := range alignments {
		width := aln.Width()
		present := map[string]string{}
		for _, rec := range aln.Recs {
			present[rec.ID] = rec.Seq
		}
		for i, taxon := range taxa {
			if seq, ok := present[taxon]; ok {
				parts[i].WriteString(seq)
			} else {
				parts[i].WriteString(strings.Repeat("?", width))
			}
		}
		charsets = append(charsets, Charset{Name: aln.Name, First: offset + 1, Last: offset + width})
		offset += width
	}

	recs := make([]Record, len(taxa))
	for i, taxon := range taxa {
		recs[i] = Record{ID: taxon, Seq: parts[i].String()}
	}
	return &Concatenated{Recs: recs, Charsets: charsets}, nil
}

// WriteNexusConcat writes the supermatrix as a data block followed by a
// sets block with one charset per source region.
func WriteNexusConcat(w io.Writer, c *Concatenated, dt DataType) error {
	aln := Alignment{Name: "concatenated", Recs: c.Recs}
	if err := WriteNexus(w, aln, dt); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("\nbegin sets;\n")
	for _, cs := range c.Charsets {
		fmt.Fprintf(&b, "    charset %s = %d-%d;\n", cs.Name, cs.First, cs.Last)
	}
	b.WriteString("end;\n")
	_, err := io.WriteString(w, b.String())
	return err
}
