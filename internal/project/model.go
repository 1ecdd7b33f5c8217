package project

import (
	"context"

	"github.com/NielsdaWheelz/vulegen/internal/errors"
	"github.com/NielsdaWheelz/vulegen/internal/fs"
	"github.com/NielsdaWheelz/vulegen/internal/inflect"
	"github.com/NielsdaWheelz/vulegen/internal/scaffold"
)

// AddOpts configures Add.
type AddOpts struct {
	// Actions selects the router handlers; the zero value means all of them.
	Actions scaffold.Actions
}

// ChangeResult describes the files an add or delete touched.
// Paths are slash-separated and relative to the project root.
type ChangeResult struct {
	Model   inflect.ModelName
	Written []string
	Removed []string
	Skipped []string // files expected but already absent
}

// Add generates a model with its admin and front routers and registers it in
// the three index files.
//
// Returns E_NOT_A_PROJECT, E_UNRECOGNIZED_WORD, E_LOCKED, E_DUPLICATE_MODEL,
// E_INDEX_CORRUPT, E_TEMPLATE_FAILED or E_WRITE_FAILED. No file is changed
// unless every precondition holds.
func (p *Project) Add(ctx context.Context, name string, opts AddOpts) (ChangeResult, error) {
	if _, err := RequireProject(p.FS, p.Root); err != nil {
		return ChangeResult{}, err
	}
	model, err := p.Inflector.Classify(name)
	if err != nil {
		return ChangeResult{}, err
	}
	actions := opts.Actions
	if actions == (scaffold.Actions{}) {
		actions = scaffold.AllActions
	}

	release, err := p.acquire("add")
	if err != nil {
		return ChangeResult{}, err
	}
	defer release()

	modelRel := scaffold.ModelPath(model.Singular)
	files := []string{modelRel}
	for _, group := range scaffold.RouteGroups() {
		files = append(files, scaffold.RoutePath(group, model.Plural))
	}
	for _, rel := range files {
		exists, err := fs.Exists(p.FS, p.abs(rel))
		if err != nil {
			return ChangeResult{}, errors.WrapWithDetails(errors.EReadFailed, "failed to check file", err,
				map[string]string{"file": rel})
		}
		if exists {
			return ChangeResult{}, duplicate(model, rel)
		}
	}

	ix, err := p.loadIndexes()
	if err != nil {
		return ChangeResult{}, err
	}
	if !ix.exports.Add(model.Singular) {
		return ChangeResult{}, duplicate(model, scaffold.ModelIndexPath)
	}
	for _, group := range scaffold.RouteGroups() {
		if !ix.mounts[group].Add(model.Plural) {
			return ChangeResult{}, duplicate(model, scaffold.RouteIndexPath(group))
		}
	}

	schema, err := render(p.Templates, scaffold.Schema, scaffold.SchemaData{Singular: model.Singular})
	if err != nil {
		return ChangeResult{}, err
	}
	cs := NewChangeset(p.FS, p.Logger)
	cs.Write(p.abs(modelRel), schema, 0644)
	for _, group := range scaffold.RouteGroups() {
		router, err := render(p.Templates, scaffold.ModelRouter, scaffold.ModelRouterData{
			Singular: model.Singular,
			Plural:   model.Plural,
			Group:    group,
			Actions:  actions,
		})
		if err != nil {
			return ChangeResult{}, err
		}
		cs.Write(p.abs(scaffold.RoutePath(group, model.Plural)), router, 0644)
	}
	p.stage(cs, ix)

	if err := cs.Apply(ctx); err != nil {
		return ChangeResult{}, err
	}

	res := ChangeResult{Model: model, Written: append(files, indexPaths()...)}
	p.Logger.Debug("model added", "model", model.Singular, "plural", model.Plural, "actions", actions.String())
	return res, nil
}

// Delete removes a model's schema and routers and unregisters it from the
// three index files.
//
// Returns E_NOT_A_PROJECT, E_UNRECOGNIZED_WORD, E_LOCKED, E_MODEL_NOT_FOUND,
// E_INDEX_CORRUPT or E_WRITE_FAILED. Router files that are already missing are
// skipped with a warning.
func (p *Project) Delete(ctx context.Context, name string) (ChangeResult, error) {
	if _, err := RequireProject(p.FS, p.Root); err != nil {
		return ChangeResult{}, err
	}
	model, err := p.Inflector.Classify(name)
	if err != nil {
		return ChangeResult{}, err
	}

	release, err := p.acquire("delete")
	if err != nil {
		return ChangeResult{}, err
	}
	defer release()

	modelRel := scaffold.ModelPath(model.Singular)
	exists, err := fs.Exists(p.FS, p.abs(modelRel))
	if err != nil {
		return ChangeResult{}, errors.WrapWithDetails(errors.EReadFailed, "failed to check file", err,
			map[string]string{"file": modelRel})
	}
	if !exists {
		return ChangeResult{}, errors.NewWithDetails(errors.EModelNotFound, "model does not exist",
			map[string]string{"model": model.Singular, "file": modelRel})
	}

	ix, err := p.loadIndexes()
	if err != nil {
		return ChangeResult{}, err
	}
	if !ix.exports.Remove(model.Singular) {
		p.Logger.Warn("model was not registered", "model", model.Singular, "file", scaffold.ModelIndexPath)
	}
	for _, group := range scaffold.RouteGroups() {
		if !ix.mounts[group].Remove(model.Plural) {
			p.Logger.Debug("no mount to remove", "path", model.Plural, "file", scaffold.RouteIndexPath(group))
		}
	}

	res := ChangeResult{Model: model}
	cs := NewChangeset(p.FS, p.Logger)
	cs.Remove(p.abs(modelRel))
	res.Removed = append(res.Removed, modelRel)
	for _, group := range scaffold.RouteGroups() {
		rel := scaffold.RoutePath(group, model.Plural)
		exists, err := fs.Exists(p.FS, p.abs(rel))
		if err != nil {
			return ChangeResult{}, errors.WrapWithDetails(errors.EReadFailed, "failed to check file", err,
				map[string]string{"file": rel})
		}
		if !exists {
			p.Logger.Warn("route file already missing, skipping", "file", rel)
			res.Skipped = append(res.Skipped, rel)
			continue
		}
		cs.Remove(p.abs(rel))
		res.Removed = append(res.Removed, rel)
	}
	p.stage(cs, ix)

	if err := cs.Apply(ctx); err != nil {
		return ChangeResult{}, err
	}

	res.Written = indexPaths()
	p.Logger.Debug("model deleted", "model", model.Singular, "plural", model.Plural)
	return res, nil
}

// ListedModel is one registered model.
type ListedModel struct {
	Name   string          // export key, e.g. "Post"
	Plural string          // "" when the name cannot be inflected
	Mounts map[string]bool // route group -> mounted
}

// List returns the models registered in the export map, in index order.
func (p *Project) List(ctx context.Context) ([]ListedModel, error) {
	if _, err := RequireProject(p.FS, p.Root); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ix, err := p.loadIndexes()
	if err != nil {
		return nil, err
	}

	var out []ListedModel
	for _, name := range ix.exports.Names() {
		m := ListedModel{Name: name, Mounts: make(map[string]bool)}
		if mn, err := p.Inflector.Classify(name); err == nil {
			m.Plural = mn.Plural
			for _, group := range scaffold.RouteGroups() {
				m.Mounts[group] = ix.mounts[group].Has(mn.Plural)
			}
		}
		out = append(out, m)
	}
	return out, nil
}

func indexPaths() []string {
	paths := []string{scaffold.ModelIndexPath}
	for _, group := range scaffold.RouteGroups() {
		paths = append(paths, scaffold.RouteIndexPath(group))
	}
	return paths
}

func duplicate(model inflect.ModelName, rel string) error {
	return errors.NewWithDetails(errors.EDuplicateModel, "model already exists",
		map[string]string{"model": model.Singular, "file": rel})
}
