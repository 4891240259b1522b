// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/gruenlab/plastburst/internal/genbank"
)

var nonWord = regexp.MustCompile(`\W`)

// sanitizeName turns a gene name into a filesystem- and NEXUS-safe region
// name: hyphens become underscores, everything else non-word is dropped
// (e.g. "trnH-GUG" -> "trnH_GUG").
func sanitizeName(gene string) string {
	return nonWord.ReplaceAllString(strings.ReplaceAll(gene, "-", "_"), "")
}

// CollectCDS collects every CDS carrying a /gene qualifier: the nucleotide
// sequence into nucl and the table-11 translation into prot. Proteins
// shorter than minLen residues are dropped; the nucleotide sequence is
// kept regardless so the taxon still contributes to the matrix.
func CollectCDS(rec *genbank.Record, nucl, prot *RegionSet, minLen int, log *zap.SugaredLogger) {
	for _, feat := range rec.Features {
		if feat.Type != "CDS" {
			continue
		}
		gene, ok := feat.Gene()
		if !ok {
			continue
		}
		region := sanitizeName(gene)
		seq, err := feat.Extract(rec)
		if err != nil {
			log.Warnw("skipping CDS with unextractable location",
				"record", rec.Name, "gene", gene, "error", err)
			continue
		}

		id := region + "_" + rec.Name
		nucl.Add(region, SeqRecord{ID: id, Seq: seq})

		protein := genbank.Translate(seq)
		if len(protein) < minLen {
			continue
		}
		prot.Add(region, SeqRecord{ID: id, Seq: protein})
	}
}

// CollectIGS collects the intergenic spacer between each pair of adjacent
// gene features. matK is dropped from the gene ladder first: it nests
// inside trnK, and its boundaries would produce phantom spacers. Pairs
// where either gene has a multi-part location are skipped, as are
// zero-length spacers. A spacer whose inverted name was already collected
// is the inverted-repeat copy and is not counted twice.
func CollectIGS(rec *genbank.Record, nucl *RegionSet, minLen int, log *zap.SugaredLogger) {
	var genes []genbank.Feature
	for _, feat := range rec.Features {
		if feat.Type != "gene" {
			continue
		}
		if gene, ok := feat.Gene(); ok && gene != "matK" {
			genes = append(genes, feat)
		}
	}

	for i := 0; i < len(genes)-1; i++ {
		cur, adj := genes[i], genes[i+1]
		curName, _ := cur.Gene()
		adjName, _ := adj.Gene()
		region := sanitizeName(curName) + "_" + sanitizeName(adjName)
		inverse := sanitizeName(adjName) + "_" + sanitizeName(curName)

		if !cur.Location.Simple() || !adj.Location.Simple() {
			log.Warnw("skipping spacer next to a multi-part gene",
				"record", rec.Name, "spacer", region)
			continue
		}

		start := cur.Location.End()
		end := adj.Location.Start()
		if start >= end {
			// Overlapping or abutting genes leave no spacer.
			continue
		}
		if end > len(rec.Sequence) {
			log.Warnw("skipping spacer beyond sequence end",
				"record", rec.Name, "spacer", region)
			continue
		}

		seq := rec.Sequence[start:end]
		if len(seq) < minLen {
			continue
		}

		if !nucl.Has(region) && nucl.Has(inverse) {
			continue
		}
		nucl.Add(region, SeqRecord{ID: region + "_" + rec.Name, Seq: seq})
	}
}

// CollectIntrons collects the introns of multi-exon CDS and tRNA features:
// a two-part location yields "<gene>_intron1", a three-part location also
// yields "<gene>_intron2". Gaps are taken in genome order so minus-strand
// genes come out right.
func CollectIntrons(rec *genbank.Record, nucl *RegionSet, log *zap.SugaredLogger) {
	for _, feat := range rec.Features {
		if feat.Type != "CDS" && feat.Type != "tRNA" {
			continue
		}
		gene, ok := feat.Gene()
		if !ok {
			continue
		}
		nparts := len(feat.Location.Spans)
		if nparts < 2 || nparts > 3 {
			continue
		}

		base := sanitizeName(gene)
		for n, gap := range feat.Location.GapsInGenomeOrder() {
			if gap.Len() <= 0 || gap.End > len(rec.Sequence) {
				log.Warnw("skipping empty or out-of-range intron",
					"record", rec.Name, "gene", gene, "intron", n+1)
				continue
			}
			region := fmt.Sprintf("%s_intron%d", base, n+1)
			seq := rec.Sequence[gap.Start:gap.End]
			nucl.Add(region, SeqRecord{ID: region + "_" + rec.Name, Seq: seq})
		}
	}
}
