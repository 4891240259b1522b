// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package genbank parses GenBank nucleotide flatfiles: the header fields
// the pipeline needs (LOCUS, DEFINITION, ACCESSION, VERSION, ORGANISM),
// the feature table with its location grammar, and the ORIGIN sequence.
package genbank

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Record is one GenBank flatfile entry.
type Record struct {
	// Name is the LOCUS name (e.g. "NC_000932").
	Name string

	// Length is the declared sequence length in base pairs.
	Length int

	// Definition is the DEFINITION text with continuation lines joined.
	Definition string

	// Accession is the primary accession number.
	Accession string

	// Version is the versioned accession (e.g. "NC_000932.1").
	Version string

	// Organism is the ORGANISM line of the SOURCE block.
	Organism string

	// Features holds the feature table in file order.
	Features []Feature

	// Sequence is the ORIGIN block, uppercased, digits and spacing stripped.
	Sequence string
}

// Feature is one entry of the feature table.
type Feature struct {
	// Type is the feature key (e.g. "gene", "CDS", "tRNA").
	Type string

	// Location is the parsed location.
	Location Location

	// Qualifiers maps qualifier keys to their values in file order.
	// Valueless qualifiers (e.g. /trans_splicing) map to one empty string.
	Qualifiers map[string][]string
}

// Qualifier returns the first value of the named qualifier.
func (f Feature) Qualifier(name string) (string, bool) {
	vals, ok := f.Qualifiers[name]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Gene returns the /gene qualifier, the name under which regions are
// collected downstream.
func (f Feature) Gene() (string, bool) {
	return f.Qualifier("gene")
}

// Extract returns the feature's sequence from the record, honoring
// multi-part locations and strand.
func (f Feature) Extract(rec *Record) (string, error) {
	return f.Location.Extract(rec.Sequence)
}

// ParseFile reads a flatfile from disk and returns its first record.
// Plastome flatfiles hold a single record; extra records are an error.
func ParseFile(path string) (*Record, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening flatfile: %w", err)
	}
	defer fh.Close()

	recs, err := Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(recs) != 1 {
		return nil, fmt.Errorf("parsing %s: expected 1 record, found %d", path, len(recs))
	}
	return recs[0], nil
}

// Parse reads all records from r. Records are delimited by "//" lines.
func Parse(r io.Reader) ([]*Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var (
		records []*Record
		p       *parser
	)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" && p == nil {
			continue
		}
		if p == nil {
			p = &parser{rec: &Record{}}
		}
		done, err := p.line(line)
		if err != nil {
			return nil, err
		}
		if done {
			records = append(records, p.rec)
			p = nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading flatfile: %w", err)
	}
	if p != nil {
		return nil, fmt.Errorf("flatfile truncated: missing // terminator for %q", p.rec.Name)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no GenBank records found")
	}
	return records, nil
}

// parser section states.
type section int

const (
	inHeader section = iota
	inFeatures
	inOrigin
)

type parser struct {
	rec     *Record
	sect    section
	lastKey string // last header keyword, for continuation lines

	feat         *Feature        // feature being assembled
	locText      strings.Builder // accumulating location text
	qualKey      string          // qualifier being assembled
	qualVal      strings.Builder
	qualInQuotes bool

	seq strings.Builder
}

// line consumes one input line; done reports the record terminator.
func (p *parser) line(line string) (done bool, err error) {
	if strings.HasPrefix(line, "//") {
		if err := p.flushFeature(); err != nil {
			return false, err
		}
		p.rec.Sequence = p.seq.String()
		if err := p.validate(); err != nil {
			return false, err
		}
		return true, nil
	}

	switch p.sect {
	case inHeader:
		return false, p.headerLine(line)
	case inFeatures:
		return false, p.featureLine(line)
	case inOrigin:
		p.originLine(line)
		return false, nil
	}
	return false, nil
}

func (p *parser) headerLine(line string) error {
	if strings.HasPrefix(line, "FEATURES") {
		p.sect = inFeatures
		return nil
	}
	if strings.HasPrefix(line, "ORIGIN") {
		p.sect = inOrigin
		return nil
	}

	// Keyword lines start in column 1; continuations are indented.
	if len(line) > 0 && line[0] != ' ' {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return nil
		}
		p.lastKey = fields[0]
		rest := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
		switch p.lastKey {
		case "LOCUS":
			return p.parseLocus(fields)
		case "DEFINITION":
			p.rec.Definition = rest
		case "ACCESSION":
			// The line may carry secondary accessions; keep the first.
			if f := strings.Fields(rest); len(f) > 0 {
				p.rec.Accession = f[0]
			}
		case "VERSION":
			if f := strings.Fields(rest); len(f) > 0 {
				p.rec.Version = f[0]
			}
		}
		return nil
	}

	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "ORGANISM") {
		p.rec.Organism = strings.TrimSpace(strings.TrimPrefix(trimmed, "ORGANISM"))
		p.lastKey = "ORGANISM"
		return nil
	}
	if p.lastKey == "DEFINITION" && trimmed != "" {
		p.rec.Definition += " " + trimmed
	}
	return nil
}

func (p *parser) parseLocus(fields []string) error {
	// LOCUS  NC_000932  154478 bp  DNA  circular  PLN  15-APR-2009
	if len(fields) < 3 {
		return fmt.Errorf("malformed LOCUS line: %q", strings.Join(fields, " "))
	}
	p.rec.Name = fields[1]
	length, err := strconv.Atoi(fields[2])
	if err != nil {
		return fmt.Errorf("malformed LOCUS length %q: %w", fields[2], err)
	}
	p.rec.Length = length
	return nil
}

// Feature table layout: keys start at column 6, locations/qualifiers at
// column 22. Continuation lines carry only the deeper indent.
func (p *parser) featureLine(line string) error {
	if strings.HasPrefix(line, "ORIGIN") {
		if err := p.flushFeature(); err != nil {
			return err
		}
		p.sect = inOrigin
		return nil
	}
	if len(line) > 0 && line[0] != ' ' {
		// A new top-level keyword (BASE COUNT, CONTIG) ends the table.
		if err := p.flushFeature(); err != nil {
			return err
		}
		p.sect = inHeader
		return p.headerLine(line)
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	// New feature: the key sits before column 22.
	indent := len(line) - len(strings.TrimLeft(line, " "))
	if indent < 21 {
		if err := p.flushFeature(); err != nil {
			return err
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			return fmt.Errorf("malformed feature line: %q", line)
		}
		p.feat = &Feature{Type: fields[0], Qualifiers: map[string][]string{}}
		p.locText.Reset()
		p.locText.WriteString(fields[1])
		return nil
	}

	if p.feat == nil {
		return fmt.Errorf("feature continuation without feature: %q", line)
	}

	// Qualifier continuation inside a quoted value takes precedence: a
	// /translation value can itself contain slashes.
	if p.qualInQuotes {
		p.qualifierContinuation(trimmed)
		return nil
	}

	if strings.HasPrefix(trimmed, "/") {
		p.flushQualifier()
		p.startQualifier(trimmed)
		return nil
	}

	if p.qualKey != "" {
		p.qualifierContinuation(trimmed)
		return nil
	}

	// Location continuation (wrapped join).
	p.locText.WriteString(trimmed)
	return nil
}

func (p *parser) startQualifier(trimmed string) {
	body := strings.TrimPrefix(trimmed, "/")
	key, val, hasVal := strings.Cut(body, "=")
	p.qualKey = key
	p.qualVal.Reset()
	p.qualInQuotes = false
	if !hasVal {
		return
	}
	if strings.HasPrefix(val, `"`) {
		val = strings.TrimPrefix(val, `"`)
		if strings.HasSuffix(val, `"`) && val != "" {
			p.qualVal.WriteString(strings.TrimSuffix(val, `"`))
		} else {
			p.qualVal.WriteString(val)
			p.qualInQuotes = true
		}
		return
	}
	p.qualVal.WriteString(val)
}

func (p *parser) qualifierContinuation(trimmed string) {
	closing := p.qualInQuotes && strings.HasSuffix(trimmed, `"`)
	if closing {
		trimmed = strings.TrimSuffix(trimmed, `"`)
	}
	// Translations wrap without spaces; free text wraps on word boundaries.
	if p.qualKey == "translation" {
		p.qualVal.WriteString(trimmed)
	} else {
		if p.qualVal.Len() > 0 {
			p.qualVal.WriteString(" ")
		}
		p.qualVal.WriteString(trimmed)
	}
	if closing {
		p.qualInQuotes = false
	}
}

func (p *parser) flushQualifier() {
	if p.qualKey == "" {
		return
	}
	p.feat.Qualifiers[p.qualKey] = append(p.feat.Qualifiers[p.qualKey], p.qualVal.String())
	p.qualKey = ""
	p.qualVal.Reset()
	p.qualInQuotes = false
}

func (p *parser) flushFeature() error {
	if p.feat == nil {
		return nil
	}
	p.flushQualifier()
	loc, err := ParseLocation(p.locText.String())
	if err != nil {
		return fmt.Errorf("feature %s: %w", p.feat.Type, err)
	}
	p.feat.Location = loc
	p.rec.Features = append(p.rec.Features, *p.feat)
	p.feat = nil
	return nil
}

func (p *parser) originLine(line string) {
	for _, r := range line {
		if r >= 'a' && r <= 'z' {
			p.seq.WriteRune(r - 'a' + 'A')
		} else if r >= 'A' && r <= 'Z' {
			p.seq.WriteRune(r)
		}
	}
}

func (p *parser) validate() error {
	if p.rec.Name == "" {
		return fmt.Errorf("record missing LOCUS name")
	}
	if p.rec.Length > 0 && len(p.rec.Sequence) > 0 && len(p.rec.Sequence) != p.rec.Length {
		return fmt.Errorf("record %s: LOCUS declares %d bp but ORIGIN holds %d",
			p.rec.Name, p.rec.Length, len(p.rec.Sequence))
	}
	return nil
}
