// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package align

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gruenlab/plastburst/internal/seqio"
	"github.com/gruenlab/plastburst/pkg/types"
)

func nopLog() *zap.SugaredLogger { return zap.NewNop().Sugar() }

// seedMatrices writes a coding region (nucl + prot) and a spacer region
// (nucl only) into dir.
func seedMatrices(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, seqio.WriteFastaFile(
		filepath.Join(dir, "nucl_psbA.unalign.fasta"), []seqio.Record{
			{ID: "psbA_NC_000932", Seq: "ATGGCTTCTACT"},
			{ID: "psbA_MH000001", Seq: "ATGTCTTCTACT"},
		}))
	require.NoError(t, seqio.WriteFastaFile(
		filepath.Join(dir, "prot_psbA.unalign.fasta"), []seqio.Record{
			{ID: "psbA_NC_000932", Seq: "MAST"},
			{ID: "psbA_MH000001", Seq: "MSST"},
		}))
	require.NoError(t, seqio.WriteFastaFile(
		filepath.Join(dir, "nucl_trnH_GUG_psbA.unalign.fasta"), []seqio.Record{
			{ID: "trnH_GUG_psbA_NC_000932", Seq: "GGGGCCCC"},
			{ID: "trnH_GUG_psbA_MH000001", Seq: "GGGACCCC"},
		}))
}

func testAlignConfig(dir string) types.AlignConfig {
	return types.AlignConfig{OutputDir: dir, Jobs: 2, Threads: 1}
}

func TestBatchAlignsCodingAndSpacer(t *testing.T) {
	dir := t.TempDir()
	seedMatrices(t, dir)
	fake := &fakeRunner{}
	var buf bytes.Buffer

	result, err := batch(context.Background(), testAlignConfig(dir),
		newMafft("", 1, fake), nopLog(), &buf)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Aligned)
	assert.Equal(t, 0, result.Failed)
	assert.False(t, result.HasFailures())

	// The coding region is aligned as protein and back-translated.
	assert.Contains(t, fake.calls, "prot_psbA.unalign.fasta")
	assert.NotContains(t, fake.calls, "nucl_psbA.unalign.fasta")

	recs, err := seqio.ReadFastaFile(filepath.Join(dir, "nucl_psbA.aligned.fasta"))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "ATGGCTTCTACT", recs[0].Seq)

	_, err = os.Stat(filepath.Join(dir, "prot_psbA.aligned.fasta"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "nucl_trnH_GUG_psbA.aligned.fasta"))
	assert.NoError(t, err)

	assert.Contains(t, buf.String(), "Alignment summary: 2 aligned, 0 skipped, 0 failed")
}

func TestBatchSkipsAlreadyAligned(t *testing.T) {
	dir := t.TempDir()
	seedMatrices(t, dir)
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "nucl_psbA.aligned.fasta"), []byte(">x\nACGT\n"), 0o644))
	var buf bytes.Buffer

	result, err := batch(context.Background(), testAlignConfig(dir),
		newMafft("", 1, &fakeRunner{}), nopLog(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Aligned)
	assert.Equal(t, 1, result.Skipped)
	assert.Contains(t, buf.String(), "skipped: psbA (already aligned)")
}

func TestBatchContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	seedMatrices(t, dir)
	fake := &fakeRunner{fail: map[string]bool{"prot_psbA.unalign.fasta": true}}
	var buf bytes.Buffer

	result, err := batch(context.Background(), testAlignConfig(dir),
		newMafft("", 1, fake), nopLog(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Aligned)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, result.HasFailures())
	assert.Contains(t, buf.String(), "failed:  psbA")
}

func TestBatchMafftMissing(t *testing.T) {
	dir := t.TempDir()
	seedMatrices(t, dir)

	_, err := batch(context.Background(), testAlignConfig(dir),
		newMafft("", 1, &fakeRunner{missing: true}), nopLog(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mafft not found")
}

func TestBatchNoMatrices(t *testing.T) {
	_, err := batch(context.Background(), testAlignConfig(t.TempDir()),
		newMafft("", 1, &fakeRunner{}), nopLog(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no unaligned matrices")
}
