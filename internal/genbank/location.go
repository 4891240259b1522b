// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genbank

import (
	"fmt"
	"strconv"
	"strings"
)

// Span is one contiguous stretch of a location, 0-based half-open.
type Span struct {
	Start      int
	End        int
	Complement bool
}

// Len returns the span length in base pairs.
func (s Span) Len() int { return s.End - s.Start }

// Location is a parsed feature location: one or more spans in the order
// they contribute to the feature's sequence.
type Location struct {
	Spans []Span
}

// Simple reports whether the location is a single span. The spacer
// extractor only operates on simple locations.
func (l Location) Simple() bool { return len(l.Spans) == 1 }

// Start returns the lowest coordinate covered by the location.
func (l Location) Start() int {
	min := l.Spans[0].Start
	for _, s := range l.Spans[1:] {
		if s.Start < min {
			min = s.Start
		}
	}
	return min
}

// End returns the highest coordinate covered by the location.
func (l Location) End() int {
	max := l.Spans[0].End
	for _, s := range l.Spans[1:] {
		if s.End > max {
			max = s.End
		}
	}
	return max
}

// Extract returns the location's sequence from seq: each span's
// subsequence (reverse-complemented when on the minus strand),
// concatenated in span order.
func (l Location) Extract(seq string) (string, error) {
	var b strings.Builder
	for _, s := range l.Spans {
		if s.Start < 0 || s.End > len(seq) || s.Start > s.End {
			return "", fmt.Errorf("span %d..%d outside sequence of length %d", s.Start, s.End, len(seq))
		}
		part := seq[s.Start:s.End]
		if s.Complement {
			part = ReverseComplement(part)
		}
		b.WriteString(part)
	}
	return b.String(), nil
}

// GapsInGenomeOrder returns the gaps between consecutive spans sorted by
// genome position, regardless of strand. These are the intron coordinates
// of a multi-part gene.
func (l Location) GapsInGenomeOrder() []Span {
	spans := make([]Span, len(l.Spans))
	copy(spans, l.Spans)
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j].Start < spans[j-1].Start; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}
	var gaps []Span
	for i := 0; i < len(spans)-1; i++ {
		gaps = append(gaps, Span{Start: spans[i].End, End: spans[i+1].Start})
	}
	return gaps
}

// ParseLocation parses the GenBank location grammar: "a..b", single bases,
// "a^b" insertion sites, join(...), order(...) (treated as join), and
// complement(...) at any level. Partial markers (< and >) are dropped; the
// position is kept.
func ParseLocation(text string) (Location, error) {
	text = strings.TrimSpace(text)
	spans, err := parseLocExpr(text)
	if err != nil {
		return Location{}, fmt.Errorf("location %q: %w", text, err)
	}
	return Location{Spans: spans}, nil
}

func parseLocExpr(s string) ([]Span, error) {
	s = strings.TrimSpace(s)

	if inner, ok := stripCall(s, "complement"); ok {
		spans, err := parseLocExpr(inner)
		if err != nil {
			return nil, err
		}
		// Complementing a joined location reads the parts back to front,
		// each on the opposite strand.
		out := make([]Span, 0, len(spans))
		for i := len(spans) - 1; i >= 0; i-- {
			sp := spans[i]
			sp.Complement = !sp.Complement
			out = append(out, sp)
		}
		return out, nil
	}

	for _, call := range []string{"join", "order"} {
		if inner, ok := stripCall(s, call); ok {
			var spans []Span
			for _, arg := range splitTopLevel(inner) {
				sub, err := parseLocExpr(arg)
				if err != nil {
					return nil, err
				}
				spans = append(spans, sub...)
			}
			if len(spans) == 0 {
				return nil, fmt.Errorf("empty %s()", call)
			}
			return spans, nil
		}
	}

	sp, err := parseSpan(s)
	if err != nil {
		return nil, err
	}
	return []Span{sp}, nil
}

// stripCall returns the argument of name(...) when s is exactly that call.
func stripCall(s, name string) (string, bool) {
	if !strings.HasPrefix(s, name+"(") || !strings.HasSuffix(s, ")") {
		return "", false
	}
	return s[len(name)+1 : len(s)-1], true
}

// splitTopLevel splits on commas not nested inside parentheses.
func splitTopLevel(s string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func parseSpan(s string) (Span, error) {
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	s = strings.TrimSpace(s)

	if lo, hi, ok := strings.Cut(s, ".."); ok {
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return Span{}, fmt.Errorf("bad start position %q", lo)
		}
		end, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return Span{}, fmt.Errorf("bad end position %q", hi)
		}
		if start < 1 || end < start {
			return Span{}, fmt.Errorf("inverted range %d..%d", start, end)
		}
		return Span{Start: start - 1, End: end}, nil
	}

	// Insertion site between two bases: zero-width at the first.
	if lo, _, ok := strings.Cut(s, "^"); ok {
		pos, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return Span{}, fmt.Errorf("bad insertion site %q", s)
		}
		return Span{Start: pos, End: pos}, nil
	}

	pos, err := strconv.Atoi(s)
	if err != nil {
		return Span{}, fmt.Errorf("bad position %q", s)
	}
	if pos < 1 {
		return Span{}, fmt.Errorf("position %d out of range", pos)
	}
	return Span{Start: pos - 1, End: pos}, nil
}
