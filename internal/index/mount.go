package index

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	mountImport = "const express = require('express');"
	mountRouter = "const router = express.Router();"
	mountExport = "module.exports = router;"
)

var mountEntryPattern = regexp.MustCompile(`^\s*router\.use\(\s*['"]/([^'"]+)['"]\s*,\s*require\(\s*['"]\./([^'"]+)['"]\s*\)\s*\)\s*;?\s*$`)

// MountEntry mounts a sub-router module under a URL path segment.
type MountEntry struct {
	Path   string
	Module string
}

func (e MountEntry) key() string { return e.Path }

func (e MountEntry) line() string {
	return fmt.Sprintf("router.use('/%s', require('./%s'));", e.Path, e.Module)
}

// MountList is the decoded content of a route group's index.js.
type MountList struct {
	mode    SortMode
	entries []MountEntry
}

// NewMountList returns a mount list holding one entry per path, each mounting
// the module of the same name.
func NewMountList(mode SortMode, paths ...string) *MountList {
	l := &MountList{mode: mode}
	for _, p := range paths {
		l.Add(p)
	}
	return l
}

// DecodeMountList parses the text of a router mount list.
// Blank lines are ignored; a repeated path keeps its first entry.
func DecodeMountList(text string, mode SortMode) (*MountList, error) {
	body, err := splitBody(text, []string{mountImport, mountRouter}, mountExport)
	if err != nil {
		return nil, err
	}

	l := &MountList{mode: mode}
	for _, nl := range body {
		match := mountEntryPattern.FindStringSubmatch(nl.text)
		if match == nil {
			return nil, &ParseError{Line: nl.n, Text: nl.text, Reason: "unrecognized mount entry"}
		}
		if indexOf(l.entries, match[1]) >= 0 {
			continue
		}
		l.entries = append(l.entries, MountEntry{Path: match[1], Module: match[2]})
	}
	sortEntries(l.entries, l.mode)
	return l, nil
}

// Add mounts the module named path at /path.
// Returns false, leaving the list unchanged, if path is already mounted.
func (l *MountList) Add(path string) bool {
	if indexOf(l.entries, path) >= 0 {
		return false
	}
	l.entries = append(l.entries, MountEntry{Path: path, Module: path})
	sortEntries(l.entries, l.mode)
	return true
}

// Remove drops the entry mounted at exactly path; "cars" never matches "scars".
// Returns false if there was no such entry.
func (l *MountList) Remove(path string) bool {
	i := indexOf(l.entries, path)
	if i < 0 {
		return false
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	return true
}

// Has reports whether path is mounted.
func (l *MountList) Has(path string) bool {
	return indexOf(l.entries, path) >= 0
}

// Entries returns a copy of the entries in encoding order.
func (l *MountList) Entries() []MountEntry {
	return append([]MountEntry(nil), l.entries...)
}

// Paths returns the mounted paths in encoding order.
func (l *MountList) Paths() []string {
	paths := make([]string, len(l.entries))
	for i, e := range l.entries {
		paths[i] = e.Path
	}
	return paths
}

// Encode renders the mount list file.
func (l *MountList) Encode() string {
	var b strings.Builder
	b.WriteString(mountImport + "\n")
	b.WriteString(mountRouter + "\n")
	b.WriteString("\n")
	for _, e := range l.entries {
		b.WriteString(e.line() + "\n")
	}
	if len(l.entries) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(mountExport + "\n")
	return b.String()
}
