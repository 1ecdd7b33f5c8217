package render

import (
	"encoding/json"
	"io"
)

// SchemaVersion is the version of every JSON envelope written here.
const SchemaVersion = "1.0"

// ModelSummary represents one registered model for list output.
// This is the public contract for list --json output (v1 stable).
type ModelSummary struct {
	Name         string `json:"name"`
	Plural       string `json:"plural,omitempty"`
	AdminMounted bool   `json:"admin_mounted"`
	FrontMounted bool   `json:"front_mounted"`
}

// ListJSONEnvelope is the stable JSON output format for list --json.
type ListJSONEnvelope struct {
	SchemaVersion string         `json:"schema_version"`
	Root          string         `json:"root"`
	Data          []ModelSummary `json:"data"`
}

// WriteListJSON writes the list output as JSON to the given writer.
func WriteListJSON(w io.Writer, root string, summaries []ModelSummary) error {
	env := ListJSONEnvelope{
		SchemaVersion: SchemaVersion,
		Root:          root,
		Data:          summaries,
	}
	// Use empty slice if nil for valid JSON array output
	if env.Data == nil {
		env.Data = []ModelSummary{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}
