package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "plastburst/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// GenomesDir is the directory for downloaded GenBank flatfiles and the
	// shared fetch error log.
	GenomesDir string `json:"genomes_dir" yaml:"genomes_dir"`

	// RequestDelay is the pause between consecutive efetch requests.
	// NCBI allows 3 requests/second without an API key and 10 with one.
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// APIKey is an optional NCBI E-utilities API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Email is the contact address NCBI asks heavy users to supply.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// ExtractConfig holds settings for the extract stage.
type ExtractConfig struct {
	// GenomesDir is the directory containing GenBank flatfiles.
	GenomesDir string `json:"genomes_dir" yaml:"genomes_dir"`

	// OutputDir is the directory for per-region FASTA matrices.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// FileExt is the flatfile extension to scan for (default ".gb").
	FileExt string `json:"file_ext" yaml:"file_ext"`

	// MinLength is the minimum sequence length (bp, or residues for the
	// protein set) below which a region is not collected.
	MinLength int `json:"min_length" yaml:"min_length"`

	// MinTaxa is the minimum number of records a region must occur in.
	MinTaxa int `json:"min_taxa" yaml:"min_taxa"`

	// Exclude lists gene names to drop after collection (default: rps12,
	// whose trans-splicing defeats positional extraction).
	Exclude []string `json:"exclude" yaml:"exclude"`
}

// AlignConfig holds settings for the align stage.
type AlignConfig struct {
	// OutputDir is the directory holding unaligned and aligned matrices.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// MafftPath is the MAFFT binary to invoke (default "mafft", via PATH).
	MafftPath string `json:"mafft_path" yaml:"mafft_path"`

	// Jobs bounds how many regions are aligned concurrently (default NumCPU).
	Jobs int `json:"jobs" yaml:"jobs"`

	// Threads is passed to MAFFT's --thread flag (default 1).
	Threads int `json:"threads" yaml:"threads"`
}

// CatalogConfig holds settings for the catalog stage.
type CatalogConfig struct {
	// CatalogDir is the directory holding the SQLite database and exports.
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`

	// GenomesDir is the directory of flatfiles the catalog indexes.
	GenomesDir string `json:"genomes_dir" yaml:"genomes_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Extract ExtractConfig `json:"extract" yaml:"extract"`
	Align   AlignConfig   `json:"align" yaml:"align"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
}
