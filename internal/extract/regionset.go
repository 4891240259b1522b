// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

// SeqRecord is one named sequence collected for a region.
type SeqRecord struct {
	// ID is "<region>_<locusName>", unique per genome within a region.
	ID string

	// Seq is the nucleotide or amino-acid sequence.
	Seq string
}

// RegionSet collects sequences per region, preserving first-seen genome
// order. Downstream output and alignment iterate regions in this order.
type RegionSet struct {
	names []string
	seqs  map[string][]SeqRecord
}

// NewRegionSet returns an empty set.
func NewRegionSet() *RegionSet {
	return &RegionSet{seqs: map[string][]SeqRecord{}}
}

// Add appends a sequence under the named region, registering the region
// on first use.
func (s *RegionSet) Add(region string, rec SeqRecord) {
	if _, ok := s.seqs[region]; !ok {
		s.names = append(s.names, region)
	}
	s.seqs[region] = append(s.seqs[region], rec)
}

// Has reports whether the region exists.
func (s *RegionSet) Has(region string) bool {
	_, ok := s.seqs[region]
	return ok
}

// Get returns the sequences collected for a region.
func (s *RegionSet) Get(region string) []SeqRecord {
	return s.seqs[region]
}

// Names returns the region names in first-seen order.
func (s *RegionSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of regions.
func (s *RegionSet) Len() int {
	return len(s.names)
}

// Delete removes a region. Order of the remaining regions is unchanged.
func (s *RegionSet) Delete(region string) {
	if _, ok := s.seqs[region]; !ok {
		return
	}
	delete(s.seqs, region)
	for i, n := range s.names {
		if n == region {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
}

// Replace swaps the sequences stored for an existing region.
func (s *RegionSet) Replace(region string, recs []SeqRecord) {
	if _, ok := s.seqs[region]; ok {
		s.seqs[region] = recs
	}
}
