package project

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/NielsdaWheelz/vulegen/internal/errors"
	"github.com/NielsdaWheelz/vulegen/internal/fs"
	"github.com/NielsdaWheelz/vulegen/internal/scaffold"
)

// MarkerField is the package.json field that marks a generated project.
const MarkerField = "vulegen"

// Manifest is the part of package.json the generator reads.
type Manifest struct {
	Marker bool
}

// LoadManifest reads package.json from root.
// Returns E_NOT_A_PROJECT if the file is missing or is not a JSON object,
// and E_READ_FAILED for other read errors. The marker is not checked here;
// see RequireProject.
func LoadManifest(fsys fs.FS, root string) (Manifest, error) {
	path := filepath.Join(root, scaffold.ManifestPath)

	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, notAProject(root, "package.json not found")
		}
		return Manifest{}, errors.WrapWithDetails(errors.EReadFailed, "failed to read package.json", err,
			map[string]string{"path": path})
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Manifest{}, notAProject(root, "package.json is not a JSON object: "+err.Error())
	}

	var m Manifest
	if rawMarker, ok := raw[MarkerField]; ok {
		m.Marker = truthy(rawMarker)
	}
	return m, nil
}

// RequireProject loads the manifest and fails with E_NOT_A_PROJECT unless
// its marker is truthy.
func RequireProject(fsys fs.FS, root string) (Manifest, error) {
	m, err := LoadManifest(fsys, root)
	if err != nil {
		return Manifest{}, err
	}
	if !m.Marker {
		return Manifest{}, notAProject(root, `package.json has no truthy "vulegen" field`)
	}
	return m, nil
}

// truthy accepts true, "true", 1 and "1".
func truthy(raw json.RawMessage) bool {
	switch v := string(bytes.TrimSpace(raw)); v {
	case "true", "1":
		return true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false
	}
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "true", "1":
		return true
	}
	return false
}

func notAProject(root, reason string) error {
	return errors.NewWithDetails(errors.ENotAProject,
		"not a vulegen project; run this command from a directory created by 'vulegen init' ("+reason+")",
		map[string]string{"root": root})
}
