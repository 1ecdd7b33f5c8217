package project

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/NielsdaWheelz/vulegen/internal/core"
	"github.com/NielsdaWheelz/vulegen/internal/errors"
	"github.com/NielsdaWheelz/vulegen/internal/fs"
	"github.com/NielsdaWheelz/vulegen/internal/index"
	"github.com/NielsdaWheelz/vulegen/internal/scaffold"
)

// InitResult describes a newly created project.
type InitResult struct {
	Project *Project
	Name    string   // package name
	Files   []string // slash-separated, relative to the project root, in write order
}

type plannedFile struct {
	rel  string
	data []byte
	perm os.FileMode
}

// Init creates the project called name under parentDir.
//
// Returns E_MISSING_NAME for a blank name, E_PATH_EXISTS if the target
// directory exists, E_TEMPLATE_FAILED if a file cannot be rendered and
// E_WRITE_FAILED if the tree cannot be written. Nothing is left behind on
// failure.
func Init(ctx context.Context, d Deps, parentDir, name string) (InitResult, error) {
	slug, err := core.ProjectName(name)
	if err != nil {
		return InitResult{}, err
	}
	p := New(filepath.Join(parentDir, slug), d)

	exists, err := fs.Exists(p.FS, p.Root)
	if err != nil {
		return InitResult{}, errors.WrapWithDetails(errors.EReadFailed, "failed to check target directory", err,
			map[string]string{"path": p.Root})
	}
	if exists {
		return InitResult{}, errors.NewWithDetails(errors.EPathExists, "target directory already exists",
			map[string]string{"path": p.Root})
	}

	files, err := p.planInit(slug)
	if err != nil {
		return InitResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return InitResult{}, err
	}

	if err := p.writeInit(ctx, files); err != nil {
		if rmErr := p.FS.RemoveAll(p.Root); rmErr != nil {
			p.Logger.Error("failed to remove partial project", "root", p.Root, "error", rmErr)
		}
		return InitResult{}, err
	}

	res := InitResult{Project: p, Name: slug}
	for _, f := range files {
		res.Files = append(res.Files, f.rel)
	}
	p.Logger.Debug("project created", "root", p.Root, "files", len(files))
	return res, nil
}

// planInit renders every file of a new project in memory.
func (p *Project) planInit(name string) ([]plannedFile, error) {
	var files []plannedFile
	data := scaffold.ProjectData{Name: name}

	for _, f := range scaffold.ProjectFiles() {
		out, err := render(p.Templates, f.Template, data)
		if err != nil {
			return nil, err
		}
		files = append(files, plannedFile{rel: f.RelPath, data: out, perm: f.Mode})
	}

	for _, model := range scaffold.SeedModels {
		out, err := render(p.Templates, scaffold.Schema, scaffold.SchemaData{Singular: model, Auth: true})
		if err != nil {
			return nil, err
		}
		files = append(files, plannedFile{rel: scaffold.ModelPath(model), data: out, perm: 0644})
	}

	exports := index.NewExportMap(p.Sort, scaffold.SeedModels...)
	files = append(files, plannedFile{rel: scaffold.ModelIndexPath, data: []byte(exports.Encode()), perm: 0644})
	for _, group := range scaffold.RouteGroups() {
		mounts := index.NewMountList(p.Sort)
		files = append(files, plannedFile{rel: scaffold.RouteIndexPath(group), data: []byte(mounts.Encode()), perm: 0644})
	}
	return files, nil
}

// writeInit creates the directories and applies the files.
func (p *Project) writeInit(ctx context.Context, files []plannedFile) error {
	dirs := map[string]bool{".": true}
	for _, f := range files {
		dirs[path.Dir(f.rel)] = true
	}
	sorted := make([]string, 0, len(dirs))
	for dir := range dirs {
		sorted = append(sorted, dir)
	}
	sort.Strings(sorted)

	for _, dir := range sorted {
		if err := p.FS.MkdirAll(p.abs(dir), 0755); err != nil {
			return errors.WrapWithDetails(errors.EWriteFailed, "failed to create directory", err,
				map[string]string{"path": p.abs(dir)})
		}
	}

	cs := NewChangeset(p.FS, p.Logger)
	for _, f := range files {
		cs.Write(p.abs(f.rel), f.data, f.perm)
	}
	return cs.Apply(ctx)
}
