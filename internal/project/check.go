package project

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/NielsdaWheelz/vulegen/internal/errors"
	"github.com/NielsdaWheelz/vulegen/internal/scaffold"
)

// CheckReport lists disagreements between the index files and the files on
// disk. Paths are slash-separated and relative to the project root.
type CheckReport struct {
	Models                 []string // registered in the export map
	MissingModelFiles      []string // registered, no schema file
	UnregisteredModelFiles []string // schema file, not registered
	MissingRouteFiles      []string // mounted, no router file
	UnmountedRouteFiles    []string // router file, not mounted
}

// OK reports whether the project is consistent.
func (r CheckReport) OK() bool {
	return len(r.MissingModelFiles) == 0 &&
		len(r.UnregisteredModelFiles) == 0 &&
		len(r.MissingRouteFiles) == 0 &&
		len(r.UnmountedRouteFiles) == 0
}

// Check decodes the index files and compares them with the model and router
// files present. It fails only when the project or its indexes cannot be read.
func (p *Project) Check(ctx context.Context) (CheckReport, error) {
	if _, err := RequireProject(p.FS, p.Root); err != nil {
		return CheckReport{}, err
	}
	if err := ctx.Err(); err != nil {
		return CheckReport{}, err
	}
	ix, err := p.loadIndexes()
	if err != nil {
		return CheckReport{}, err
	}

	var r CheckReport
	r.Models = ix.exports.Names()

	modelFiles, err := p.jsStems(scaffold.ModelsDir)
	if err != nil {
		return CheckReport{}, err
	}
	for _, name := range r.Models {
		if !modelFiles[name] {
			r.MissingModelFiles = append(r.MissingModelFiles, scaffold.ModelPath(name))
		}
	}
	for stem := range modelFiles {
		if !ix.exports.Has(stem) {
			r.UnregisteredModelFiles = append(r.UnregisteredModelFiles, scaffold.ModelPath(stem))
		}
	}

	for _, group := range scaffold.RouteGroups() {
		mounts := ix.mounts[group]
		routeFiles, err := p.jsStems("routes/" + group)
		if err != nil {
			return CheckReport{}, err
		}
		for _, e := range mounts.Entries() {
			if !routeFiles[e.Module] {
				r.MissingRouteFiles = append(r.MissingRouteFiles, scaffold.RoutePath(group, e.Module))
			}
		}
		mounted := make(map[string]bool)
		for _, e := range mounts.Entries() {
			mounted[e.Module] = true
		}
		for stem := range routeFiles {
			if !mounted[stem] {
				r.UnmountedRouteFiles = append(r.UnmountedRouteFiles, scaffold.RoutePath(group, stem))
			}
		}
	}

	sort.Strings(r.UnregisteredModelFiles)
	sort.Strings(r.UnmountedRouteFiles)
	return r, nil
}

// jsStems returns the stems of the .js files in dir, excluding index.js.
// A missing directory has no files.
func (p *Project) jsStems(dir string) (map[string]bool, error) {
	entries, err := p.FS.ReadDir(p.abs(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, errors.WrapWithDetails(errors.EReadFailed, "failed to list directory", err,
			map[string]string{"dir": dir})
	}
	stems := make(map[string]bool)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".js") || name == "index.js" {
			continue
		}
		stems[strings.TrimSuffix(name, ".js")] = true
	}
	return stems, nil
}
