// Package index reads and writes the generated index files that register
// models: the model export map (models/index.js) and the router mount lists
// (routes/admin/index.js, routes/front/index.js).
//
// Files are decoded into typed entries keyed by their logical name, mutated
// by exact key, and re-encoded in a deterministic order. Decoding is strict:
// a wrapper mismatch or an unrecognized line is a *ParseError rather than
// something to splice around.
package index

import (
	"fmt"
	"sort"
	"strings"
)

// SortMode selects the order entries are encoded in.
type SortMode string

const (
	// SortByKey orders entries by their logical key (model name or mount path).
	SortByKey SortMode = "key"
	// SortByLine orders entries by the raw text of their encoded line, which is
	// the order earlier releases of the generator produced.
	SortByLine SortMode = "line"
)

// ParseSortMode parses a sort mode name. Empty selects SortByKey.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByKey:
		return SortByKey, nil
	case SortByLine:
		return SortByLine, nil
	default:
		return "", fmt.Errorf("unknown index sort mode %q (want %s or %s)", s, SortByKey, SortByLine)
	}
}

// ParseError describes why an index file could not be decoded.
type ParseError struct {
	Line   int // 1-based; 0 when the file as a whole is malformed
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return e.Reason
	}
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// entry is what both index kinds store.
type entry interface {
	key() string
	line() string
}

// sortEntries orders entries in place according to mode.
func sortEntries[E entry](entries []E, mode SortMode) {
	sort.SliceStable(entries, func(i, j int) bool {
		if mode == SortByLine {
			return entries[i].line() < entries[j].line()
		}
		return entries[i].key() < entries[j].key()
	})
}

// indexOf returns the position of the entry with key, or -1.
func indexOf[E entry](entries []E, key string) int {
	for i, e := range entries {
		if e.key() == key {
			return i
		}
	}
	return -1
}

// numberedLine is a source line with its 1-based line number.
type numberedLine struct {
	n    int
	text string
}

// splitBody splits text into lines, verifies that the first len(header)
// non-blank lines and the last non-blank line match the wrapper (ignoring
// surrounding whitespace), and returns the non-blank lines in between.
func splitBody(text string, header []string, footers ...string) ([]numberedLine, error) {
	var lines []numberedLine
	for i, l := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, numberedLine{n: i + 1, text: l})
	}

	if len(lines) < len(header)+1 {
		return nil, &ParseError{Reason: "file is too short to hold the index wrapper"}
	}
	for i, want := range header {
		if got := strings.TrimSpace(lines[i].text); got != want {
			return nil, &ParseError{Line: lines[i].n, Text: lines[i].text, Reason: fmt.Sprintf("expected %q", want)}
		}
	}

	last := lines[len(lines)-1]
	footerOK := false
	for _, f := range footers {
		if strings.TrimSpace(last.text) == f {
			footerOK = true
			break
		}
	}
	if !footerOK {
		return nil, &ParseError{Line: last.n, Text: last.text, Reason: fmt.Sprintf("expected %q", footers[0])}
	}

	return lines[len(header) : len(lines)-1], nil
}
