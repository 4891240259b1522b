// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Genome holds catalog metadata for a fetched GenBank record.
type Genome struct {
	// Accession is the bare accession number (e.g. "NC_000932").
	Accession string `json:"accession" yaml:"accession"`

	// Version is the versioned accession (e.g. "NC_000932.1").
	Version string `json:"version" yaml:"version"`

	// Organism is the source organism name.
	Organism string `json:"organism" yaml:"organism"`

	// Definition is the record's DEFINITION line.
	Definition string `json:"definition" yaml:"definition"`

	// Length is the sequence length in base pairs.
	Length int `json:"length" yaml:"length"`

	// Path is the local flatfile path.
	Path string `json:"path" yaml:"path"`

	// FetchedAt is when the flatfile was downloaded or last indexed.
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
}

// RegionKind identifies the class of an extracted region.
type RegionKind string

const (
	KindCDS    RegionKind = "cds"
	KindIGS    RegionKind = "igs"
	KindIntron RegionKind = "int"
)

// Region summarizes one extracted region across all input genomes,
// as written to the regions.yaml manifest.
type Region struct {
	// Name is the sanitized region name (e.g. "rbcL", "trnH_psbA",
	// "atpF_intron1").
	Name string `json:"name" yaml:"name"`

	// Kind is the region class.
	Kind RegionKind `json:"kind" yaml:"kind"`

	// Taxa is the number of records the region was collected from.
	Taxa int `json:"taxa" yaml:"taxa"`

	// MinLen and MaxLen are the shortest and longest collected sequence
	// lengths in base pairs.
	MinLen int `json:"min_len" yaml:"min_len"`
	MaxLen int `json:"max_len" yaml:"max_len"`
}
