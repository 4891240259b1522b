// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"go.uber.org/zap"
)

// Dedupe removes sequences with duplicate IDs within each region; the
// first occurrence wins. Inverted-repeat genes otherwise appear twice per
// genome.
func Dedupe(set *RegionSet) {
	for _, region := range set.Names() {
		seen := map[string]bool{}
		var unique []SeqRecord
		for _, rec := range set.Get(region) {
			if seen[rec.ID] {
				continue
			}
			seen[rec.ID] = true
			unique = append(unique, rec)
		}
		set.Replace(region, unique)
	}
}

// FilterMinTaxa drops regions collected from fewer than minTaxa genomes.
// The protein set, when present, follows the nucleotide set's verdict so
// the two stay aligned.
func FilterMinTaxa(nucl, prot *RegionSet, minTaxa int, log *zap.SugaredLogger) {
	for _, region := range nucl.Names() {
		if len(nucl.Get(region)) >= minTaxa {
			continue
		}
		log.Debugw("dropping region below taxon threshold",
			"region", region, "taxa", len(nucl.Get(region)), "min", minTaxa)
		nucl.Delete(region)
		if prot != nil {
			prot.Delete(region)
		}
	}
}

// RemoveORFs drops unnamed open reading frames ("orf" regions), which are
// not comparable loci across genomes.
func RemoveORFs(nucl, prot *RegionSet) {
	for _, region := range nucl.Names() {
		if !strings.Contains(region, "orf") {
			continue
		}
		nucl.Delete(region)
		if prot != nil {
			prot.Delete(region)
		}
	}
}

// RemoveExcluded drops user-excluded genes. In intron mode an excluded
// gene name expands to its "_intron1"/"_intron2" region names.
func RemoveExcluded(nucl, prot *RegionSet, exclude []string, mode Mode, log *zap.SugaredLogger) {
	var targets []string
	for _, gene := range exclude {
		name := sanitizeName(gene)
		if mode == ModeIntron {
			targets = append(targets, name+"_intron1", name+"_intron2")
		} else {
			targets = append(targets, name)
		}
	}

	for _, region := range targets {
		if !nucl.Has(region) {
			log.Warnw("excluded region not present in input", "region", region)
			continue
		}
		nucl.Delete(region)
		if prot != nil {
			prot.Delete(region)
		}
	}
}
