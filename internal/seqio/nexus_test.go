// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package seqio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteNexus(t *testing.T) {
	aln := Alignment{
		Name: "psbA",
		Recs: []Record{
			{ID: "NC_000932", Seq: "ATG-GCT"},
			{ID: "MH1", Seq: "ATGCGCT"},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteNexus(&buf, aln, DNA))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "#NEXUS\n"))
	assert.Contains(t, out, "dimensions ntax=2 nchar=7;")
	assert.Contains(t, out, "format datatype=dna missing=? gap=-;")
	assert.Contains(t, out, "NC_000932 ATG-GCT")
	// Short labels are padded to align the matrix columns.
	assert.Contains(t, out, "MH1       ATGCGCT")
	assert.Contains(t, out, "end;\n")
}

func TestWriteNexusRagged(t *testing.T) {
	aln := Alignment{
		Name: "rbcL",
		Recs: []Record{
			{ID: "a", Seq: "ACGT"},
			{ID: "b", Seq: "ACG"},
		},
	}
	err := WriteNexus(&bytes.Buffer{}, aln, DNA)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ragged")
	assert.Contains(t, err.Error(), "rbcL")
}

func TestWriteNexusEmpty(t *testing.T) {
	err := WriteNexus(&bytes.Buffer{}, Alignment{Name: "empty"}, Protein)
	require.Error(t, err)
}

func TestConcat(t *testing.T) {
	alignments := []Alignment{
		{Name: "psbA", Recs: []Record{
			{ID: "taxonA", Seq: "ATGGCT"},
			{ID: "taxonB", Seq: "ATG-CT"},
		}},
		{Name: "rbcL", Recs: []Record{
			{ID: "taxonB", Seq: "CCCC"},
			{ID: "taxonC", Seq: "GGGG"},
		}},
	}

	c, err := Concat(alignments)
	require.NoError(t, err)

	require.Len(t, c.Recs, 3)
	assert.Equal(t, Record{ID: "taxonA", Seq: "ATGGCT????"}, c.Recs[0])
	assert.Equal(t, Record{ID: "taxonB", Seq: "ATG-CTCCCC"}, c.Recs[1])
	assert.Equal(t, Record{ID: "taxonC", Seq: "??????GGGG"}, c.Recs[2])

	require.Len(t, c.Charsets, 2)
	assert.Equal(t, Charset{Name: "psbA", First: 1, Last: 6}, c.Charsets[0])
	assert.Equal(t, Charset{Name: "rbcL", First: 7, Last: 10}, c.Charsets[1])
}

func TestConcatErrors(t *testing.T) {
	_, err := Concat(nil)
	require.Error(t, err)

	_, err = Concat([]Alignment{{Name: "bad", Recs: []Record{
		{ID: "a", Seq: "AC"},
		{ID: "b", Seq: "ACGT"},
	}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ragged")
}

func TestWriteNexusConcat(t *testing.T) {
	c, err := Concat([]Alignment{
		{Name: "psbA", Recs: []Record{{ID: "taxonA", Seq: "ATG"}}},
		{Name: "atpF_intron1", Recs: []Record{{ID: "taxonA", Seq: "GTAAG"}}},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteNexusConcat(&buf, c, DNA))

	out := buf.String()
	assert.Contains(t, out, "dimensions ntax=1 nchar=8;")
	assert.Contains(t, out, "begin sets;")
	assert.Contains(t, out, "charset psbA = 1-3;")
	assert.Contains(t, out, "charset atpF_intron1 = 4-8;")
}
