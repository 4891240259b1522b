// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package concat

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gruenlab/plastburst/internal/seqio"
	"github.com/gruenlab/plastburst/pkg/types"
)

func nopLog() *zap.SugaredLogger { return zap.NewNop().Sugar() }

func seedAligned(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, seqio.WriteFastaFile(
		filepath.Join(dir, "nucl_psbA.aligned.fasta"), []seqio.Record{
			{ID: "psbA_NC_000932", Seq: "ATGGCT"},
			{ID: "psbA_MH000001", Seq: "ATG-CT"},
		}))
	require.NoError(t, seqio.WriteFastaFile(
		filepath.Join(dir, "nucl_trnH_GUG_psbA.aligned.fasta"), []seqio.Record{
			{ID: "trnH_GUG_psbA_NC_000932", Seq: "GGCC"},
		}))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	seedAligned(t, dir)
	var buf bytes.Buffer

	summary, err := Run(types.ExtractConfig{OutputDir: dir}, nopLog(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Regions)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 2, summary.Taxa)
	assert.Equal(t, 10, summary.Columns)

	// Per-region NEXUS files.
	for _, name := range []string{"nucl_psbA.aligned.nexus", "nucl_trnH_GUG_psbA.aligned.nexus"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	// Supermatrix rows are keyed by genome; the genome absent from the
	// spacer region is padded with '?'.
	recs, err := seqio.ReadFastaFile(filepath.Join(dir, "nucl_2concat.aligned.fasta"))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, seqio.Record{ID: "NC_000932", Seq: "ATGGCTGGCC"}, recs[0])
	assert.Equal(t, seqio.Record{ID: "MH000001", Seq: "ATG-CT????"}, recs[1])

	data, err := os.ReadFile(filepath.Join(dir, "nucl_2concat.aligned.nexus"))
	require.NoError(t, err)
	nexus := string(data)
	assert.Contains(t, nexus, "charset psbA = 1-6;")
	assert.Contains(t, nexus, "charset trnH_GUG_psbA = 7-10;")
}

func TestRunSkipsRaggedRegion(t *testing.T) {
	dir := t.TempDir()
	seedAligned(t, dir)
	require.NoError(t, seqio.WriteFastaFile(
		filepath.Join(dir, "nucl_rbcL.aligned.fasta"), []seqio.Record{
			{ID: "rbcL_NC_000932", Seq: "AAAA"},
			{ID: "rbcL_MH000001", Seq: "AA"},
		}))
	var buf bytes.Buffer

	summary, err := Run(types.ExtractConfig{OutputDir: dir}, nopLog(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Regions)
	assert.Equal(t, 1, summary.Skipped)
	assert.Contains(t, buf.String(), "skipped: rbcL")
}

func TestRunIgnoresPreviousSupermatrix(t *testing.T) {
	dir := t.TempDir()
	seedAligned(t, dir)
	require.NoError(t, seqio.WriteFastaFile(
		filepath.Join(dir, "nucl_2concat.aligned.fasta"), []seqio.Record{
			{ID: "NC_000932", Seq: "ATGGCTGGCC"},
		}))
	var buf bytes.Buffer

	summary, err := Run(types.ExtractConfig{OutputDir: dir}, nopLog(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Regions)
}

func TestRunEmptyDirectory(t *testing.T) {
	_, err := Run(types.ExtractConfig{OutputDir: t.TempDir()}, nopLog(), &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no aligned matrices"))
}
