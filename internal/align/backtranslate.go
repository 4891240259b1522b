// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package align

import (
	"fmt"
	"strings"

	"github.com/gruenlab/plastburst/internal/seqio"
)

// BackTranslate threads the unaligned nucleotide sequences through a
// protein alignment: every residue column becomes the residue's source
// codon and every gap column becomes "---". The nucleotide sequence may
// carry one trailing stop codon beyond the protein; anything else is a
// length mismatch and fails the region.
func BackTranslate(alignedProt, unalignedNucl []seqio.Record) ([]seqio.Record, error) {
	nuclByID := make(map[string]string, len(unalignedNucl))
	for _, rec := range unalignedNucl {
		nuclByID[rec.ID] = rec.Seq
	}

	out := make([]seqio.Record, 0, len(alignedProt))
	for _, prot := range alignedProt {
		nucl, ok := nuclByID[prot.ID]
		if !ok {
			return nil, fmt.Errorf("no nucleotide sequence for %s", prot.ID)
		}

		residues := len(prot.Seq) - strings.Count(prot.Seq, "-")
		switch len(nucl) {
		case residues * 3:
		case residues*3 + 3: // trailing stop codon, dropped
		default:
			return nil, fmt.Errorf(
				"length mismatch for %s: %d nucleotides cannot back %d residues",
				prot.ID, len(nucl), residues)
		}

		var b strings.Builder
		b.Grow(len(prot.Seq) * 3)
		pos := 0
		for _, col := range prot.Seq {
			if col == '-' {
				b.WriteString("---")
				continue
			}
			b.WriteString(nucl[pos : pos+3])
			pos += 3
		}
		out = append(out, seqio.Record{ID: prot.ID, Seq: b.String()})
	}
	return out, nil
}
