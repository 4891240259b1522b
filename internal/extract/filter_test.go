// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	set := NewRegionSet()
	set.Add("rbcL", SeqRecord{ID: "rbcL_PB000001", Seq: "AAA"})
	set.Add("rbcL", SeqRecord{ID: "rbcL_PB000001", Seq: "CCC"}) // IR duplicate
	set.Add("rbcL", SeqRecord{ID: "rbcL_PB000002", Seq: "GGG"})

	Dedupe(set)

	recs := set.Get("rbcL")
	assert.Len(t, recs, 2)
	// First occurrence wins.
	assert.Equal(t, "AAA", recs[0].Seq)
	assert.Equal(t, "rbcL_PB000002", recs[1].ID)
}

func TestFilterMinTaxa(t *testing.T) {
	nucl := NewRegionSet()
	prot := NewRegionSet()
	for _, id := range []string{"a", "b", "c"} {
		nucl.Add("rbcL", SeqRecord{ID: "rbcL_" + id, Seq: "AAA"})
		prot.Add("rbcL", SeqRecord{ID: "rbcL_" + id, Seq: "K"})
	}
	nucl.Add("ycf1", SeqRecord{ID: "ycf1_a", Seq: "CCC"})
	prot.Add("ycf1", SeqRecord{ID: "ycf1_a", Seq: "P"})

	FilterMinTaxa(nucl, prot, 2, nopLog())

	assert.Equal(t, []string{"rbcL"}, nucl.Names())
	// The protein set follows the nucleotide verdict.
	assert.Equal(t, []string{"rbcL"}, prot.Names())
}

func TestFilterMinTaxaNilProt(t *testing.T) {
	nucl := NewRegionSet()
	nucl.Add("trnH_psbA", SeqRecord{ID: "trnH_psbA_a", Seq: "AAA"})

	FilterMinTaxa(nucl, nil, 2, nopLog())
	assert.Equal(t, 0, nucl.Len())
}

func TestRemoveORFs(t *testing.T) {
	nucl := NewRegionSet()
	nucl.Add("rbcL", SeqRecord{ID: "rbcL_a", Seq: "AAA"})
	nucl.Add("orf42", SeqRecord{ID: "orf42_a", Seq: "CCC"})
	nucl.Add("orf188_rbcL", SeqRecord{ID: "orf188_rbcL_a", Seq: "GGG"})

	RemoveORFs(nucl, nil)
	assert.Equal(t, []string{"rbcL"}, nucl.Names())
}

func TestRemoveExcluded(t *testing.T) {
	nucl := NewRegionSet()
	nucl.Add("rps12", SeqRecord{ID: "rps12_a", Seq: "AAA"})
	nucl.Add("rbcL", SeqRecord{ID: "rbcL_a", Seq: "CCC"})

	RemoveExcluded(nucl, nil, []string{"rps12", "ndhF"}, ModeCDS, nopLog())
	assert.Equal(t, []string{"rbcL"}, nucl.Names())
}

func TestRemoveExcludedIntronMode(t *testing.T) {
	nucl := NewRegionSet()
	nucl.Add("rps12_intron1", SeqRecord{ID: "rps12_intron1_a", Seq: "AAA"})
	nucl.Add("rps12_intron2", SeqRecord{ID: "rps12_intron2_a", Seq: "CCC"})
	nucl.Add("atpF_intron1", SeqRecord{ID: "atpF_intron1_a", Seq: "GGG"})

	RemoveExcluded(nucl, nil, []string{"rps12"}, ModeIntron, nopLog())
	assert.Equal(t, []string{"atpF_intron1"}, nucl.Names())
}

func TestRegionSetOrder(t *testing.T) {
	set := NewRegionSet()
	set.Add("c", SeqRecord{ID: "c_1", Seq: "A"})
	set.Add("a", SeqRecord{ID: "a_1", Seq: "A"})
	set.Add("b", SeqRecord{ID: "b_1", Seq: "A"})
	set.Add("a", SeqRecord{ID: "a_2", Seq: "A"})

	// First-seen order, not lexical.
	assert.Equal(t, []string{"c", "a", "b"}, set.Names())

	set.Delete("a")
	assert.Equal(t, []string{"c", "b"}, set.Names())
	assert.False(t, set.Has("a"))
}
