package index

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	exportOpen  = "module.exports = {"
	exportClose = "};"

	// legacyExportClose is the close line written by earlier releases.
	legacyExportClose = "}"
)

var exportEntryPattern = regexp.MustCompile(`^\s*([A-Za-z_$][\w$]*)\s*:\s*require\(\s*['"]\./([^'"]+)['"]\s*\)\s*,?\s*$`)

// ExportEntry maps a model name to the module that defines it.
type ExportEntry struct {
	Name   string
	Module string
}

func (e ExportEntry) key() string { return e.Name }

func (e ExportEntry) line() string {
	return fmt.Sprintf("\t%s: require('./%s'),", e.Name, e.Module)
}

// ExportMap is the decoded content of models/index.js.
type ExportMap struct {
	mode    SortMode
	entries []ExportEntry
}

// NewExportMap returns an export map holding one entry per name, each
// pointing at the module of the same name.
func NewExportMap(mode SortMode, names ...string) *ExportMap {
	m := &ExportMap{mode: mode}
	for _, n := range names {
		m.Add(n)
	}
	return m
}

// DecodeExportMap parses the text of a model export map.
// Blank lines are ignored; a repeated name keeps its first entry.
func DecodeExportMap(text string, mode SortMode) (*ExportMap, error) {
	body, err := splitBody(text, []string{exportOpen}, exportClose, legacyExportClose)
	if err != nil {
		return nil, err
	}

	m := &ExportMap{mode: mode}
	for _, l := range body {
		match := exportEntryPattern.FindStringSubmatch(l.text)
		if match == nil {
			return nil, &ParseError{Line: l.n, Text: l.text, Reason: "unrecognized export entry"}
		}
		if indexOf(m.entries, match[1]) >= 0 {
			continue
		}
		m.entries = append(m.entries, ExportEntry{Name: match[1], Module: match[2]})
	}
	sortEntries(m.entries, m.mode)
	return m, nil
}

// Add registers name with a module of the same name.
// Returns false, leaving the map unchanged, if name is already registered.
func (m *ExportMap) Add(name string) bool {
	if indexOf(m.entries, name) >= 0 {
		return false
	}
	m.entries = append(m.entries, ExportEntry{Name: name, Module: name})
	sortEntries(m.entries, m.mode)
	return true
}

// Remove drops the entry whose name is exactly name.
// Returns false if there was no such entry.
func (m *ExportMap) Remove(name string) bool {
	i := indexOf(m.entries, name)
	if i < 0 {
		return false
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	return true
}

// Has reports whether name is registered.
func (m *ExportMap) Has(name string) bool {
	return indexOf(m.entries, name) >= 0
}

// Entries returns a copy of the entries in encoding order.
func (m *ExportMap) Entries() []ExportEntry {
	return append([]ExportEntry(nil), m.entries...)
}

// Names returns the registered model names in encoding order.
func (m *ExportMap) Names() []string {
	names := make([]string, len(m.entries))
	for i, e := range m.entries {
		names[i] = e.Name
	}
	return names
}

// Encode renders the export map file.
func (m *ExportMap) Encode() string {
	var b strings.Builder
	b.WriteString(exportOpen + "\n")
	for _, e := range m.entries {
		b.WriteString(e.line() + "\n")
	}
	b.WriteString(exportClose + "\n")
	return b.String()
}
