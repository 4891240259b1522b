// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genbank

import "strings"

// table11 is the bacterial, archaeal and plant plastid genetic code
// (NCBI translation table 11). It differs from the standard code only in
// its start codons, which do not affect translation of a full CDS.
var table11 = map[string]byte{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"TAT": 'Y', "TAC": 'Y', "TAA": '*', "TAG": '*',
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"TGT": 'C', "TGC": 'C', "TGA": '*', "TGG": 'W',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

// Translate renders a nucleotide sequence as amino acids under table 11.
// A trailing partial codon is ignored, internal stops appear as '*', and a
// terminal stop is trimmed. Codons with ambiguity codes translate to 'X'.
func Translate(nucl string) string {
	nucl = strings.ToUpper(nucl)
	var b strings.Builder
	b.Grow(len(nucl) / 3)
	for i := 0; i+3 <= len(nucl); i += 3 {
		aa, ok := table11[nucl[i:i+3]]
		if !ok {
			aa = 'X'
		}
		b.WriteByte(aa)
	}
	prot := b.String()
	return strings.TrimSuffix(prot, "*")
}

// complementBase covers the IUPAC nucleotide alphabet.
var complementBase = map[byte]byte{
	'A': 'T', 'T': 'A', 'G': 'C', 'C': 'G', 'U': 'A',
	'R': 'Y', 'Y': 'R', 'S': 'S', 'W': 'W', 'K': 'M', 'M': 'K',
	'B': 'V', 'V': 'B', 'D': 'H', 'H': 'D', 'N': 'N',
}

// ReverseComplement returns the reverse complement of a nucleotide
// sequence. Unrecognized characters pass through unchanged.
func ReverseComplement(seq string) string {
	out := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		c := seq[len(seq)-1-i]
		lower := c >= 'a' && c <= 'z'
		if lower {
			c -= 'a' - 'A'
		}
		comp, ok := complementBase[c]
		if !ok {
			comp = c
		}
		if lower {
			comp += 'a' - 'A'
		}
		out[i] = comp
	}
	return string(out)
}
