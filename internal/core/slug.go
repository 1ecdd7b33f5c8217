// Package core holds small pure helpers shared by the commands.
package core

import (
	"strings"
	"unicode"

	"github.com/NielsdaWheelz/vulegen/internal/errors"
)

// MaxProjectNameLen is the longest package name npm accepts.
const MaxProjectNameLen = 214

// Slugify converts a title into a lowercase hyphen slug.
// - allowed: [a-z0-9-]
// - whitespace/underscore => hyphen
// - drop all other chars
// - collapse multiple hyphens
// - trim leading/trailing hyphens
// - maxLen enforced (truncate after cleanup)
// - after truncation, re-trim leading/trailing hyphens and collapse repeats
// if nothing survives or maxLen <= 0 => ""
func Slugify(title string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '_' || r == '-':
			b.WriteRune('-')
		}
	}

	result := strings.Trim(collapseHyphens(b.String()), "-")
	if len(result) > maxLen {
		result = result[:maxLen]
	}
	return strings.Trim(collapseHyphens(result), "-")
}

// ProjectName turns the name given to init into the project directory and
// package name.
// Returns E_MISSING_NAME if name is blank and E_USAGE if nothing usable
// remains after slugifying.
func ProjectName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New(errors.EMissingName, "project name is required")
	}
	slug := Slugify(name, MaxProjectNameLen)
	if slug == "" {
		return "", errors.NewWithDetails(errors.EUsage,
			"project name must contain letters or digits",
			map[string]string{"name": name})
	}
	return slug, nil
}

// collapseHyphens replaces multiple consecutive hyphens with a single hyphen.
func collapseHyphens(s string) string {
	var b strings.Builder
	prevHyphen := false
	for _, r := range s {
		if r == '-' {
			if !prevHyphen {
				b.WriteRune(r)
				prevHyphen = true
			}
		} else {
			b.WriteRune(r)
			prevHyphen = false
		}
	}
	return b.String()
}
