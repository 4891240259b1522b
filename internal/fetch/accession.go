// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// accessionPattern matches GenBank nucleotide accessions: one or two
// letters and 5-9 digits ("L12345", "MH173523"), the RefSeq underscore
// form ("NC_000932"), and an optional ".version" suffix.
var accessionPattern = regexp.MustCompile(`^([A-Z]{1,2}_?[0-9]{5,9})(\.[0-9]+)?$`)

// Normalize validates an accession and returns it uppercased with any
// version suffix intact. Unrecognized input is rejected before a request
// is ever issued for it.
func Normalize(raw string) (string, error) {
	acc := strings.ToUpper(strings.TrimSpace(raw))
	if !accessionPattern.MatchString(acc) {
		return "", fmt.Errorf("unrecognized accession format: %q", raw)
	}
	return acc, nil
}

// Stem returns the filename stem for an accession: the version suffix is
// dropped so re-fetching "NC_000932.1" and "NC_000932" lands on one file.
func Stem(accession string) string {
	m := accessionPattern.FindStringSubmatch(accession)
	if m == nil {
		return accession
	}
	return m[1]
}

// ReadList reads an accession list file: one accession per line, blank
// lines and #-comments ignored, surrounding whitespace trimmed. Entries
// are returned unvalidated; the batch loop charges bad entries as
// failures so one typo cannot abort the run.
func ReadList(path string) ([]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening accession list: %w", err)
	}
	defer fh.Close()

	var accessions []string
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		accessions = append(accessions, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading accession list %s: %w", path, err)
	}
	return accessions, nil
}
