// Package render formats command output for humans and machines.
package render

import (
	"fmt"
	"io"
	"strings"
)

// MountMissing is shown for a route group the model is not mounted in.
const MountMissing = "-"

// ModelRow holds the fields for a single human-output row of list.
type ModelRow struct {
	Name   string
	Plural string
	Admin  string
	Front  string
}

// WriteListHuman writes the list output as aligned columns.
// Nothing is written for an empty list.
func WriteListHuman(w io.Writer, rows []ModelRow) error {
	if len(rows) == 0 {
		return nil
	}

	widths := columnWidths(rows)

	header := formatRow(widths, ModelRow{Name: "MODEL", Plural: "PLURAL", Admin: "ADMIN", Front: "FRONT"})
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, formatRow(widths, row)); err != nil {
			return err
		}
	}
	return nil
}

// FormatModelRow converts a summary into display strings.
func FormatModelRow(s ModelSummary) ModelRow {
	return ModelRow{
		Name:   s.Name,
		Plural: orMissing(s.Plural),
		Admin:  mountCell(s.Plural, s.AdminMounted),
		Front:  mountCell(s.Plural, s.FrontMounted),
	}
}

// FormatModelRows converts summaries into display rows.
func FormatModelRows(summaries []ModelSummary) []ModelRow {
	rows := make([]ModelRow, len(summaries))
	for i, s := range summaries {
		rows[i] = FormatModelRow(s)
	}
	return rows
}

type colWidths struct {
	name   int
	plural int
	admin  int
}

func columnWidths(rows []ModelRow) colWidths {
	widths := colWidths{
		name:   len("MODEL"),
		plural: len("PLURAL"),
		admin:  len("ADMIN"),
	}
	for _, row := range rows {
		widths.name = max(widths.name, len(row.Name))
		widths.plural = max(widths.plural, len(row.Plural))
		widths.admin = max(widths.admin, len(row.Admin))
	}
	return widths
}

func formatRow(w colWidths, row ModelRow) string {
	line := fmt.Sprintf("%-*s  %-*s  %-*s  %s",
		w.name, row.Name,
		w.plural, row.Plural,
		w.admin, row.Admin,
		row.Front,
	)
	return strings.TrimRight(line, " ")
}

func mountCell(plural string, mounted bool) string {
	if !mounted || plural == "" {
		return MountMissing
	}
	return "/" + plural
}

func orMissing(s string) string {
	if s == "" {
		return MountMissing
	}
	return s
}
