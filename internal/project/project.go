// Package project creates generated projects and mutates them: adding and
// deleting models together with their routers and index registrations.
//
// Every operation works on an explicit project root. Mutations are computed
// in memory first and then applied through a Changeset, so a failure part way
// leaves the tree as it was.
package project

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/NielsdaWheelz/vulegen/internal/errors"
	"github.com/NielsdaWheelz/vulegen/internal/fs"
	"github.com/NielsdaWheelz/vulegen/internal/index"
	"github.com/NielsdaWheelz/vulegen/internal/inflect"
	"github.com/NielsdaWheelz/vulegen/internal/lock"
	"github.com/NielsdaWheelz/vulegen/internal/logging"
	"github.com/NielsdaWheelz/vulegen/internal/scaffold"
)

// Classifier derives both forms of a model name.
type Classifier interface {
	Classify(name string) (inflect.ModelName, error)
}

// Deps are the collaborators shared by every project operation.
type Deps struct {
	FS        fs.FS
	Templates scaffold.Renderer
	Inflector Classifier
	Lock      lock.Locker
	Sort      index.SortMode
	Logger    *slog.Logger
}

// Project is a generated project rooted at Root.
type Project struct {
	Root string
	Deps
}

// New returns the project at root. It does not touch the filesystem.
func New(root string, d Deps) *Project {
	if d.FS == nil {
		d.FS = fs.NewRealFS()
	}
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	if d.Sort == "" {
		d.Sort = index.SortByKey
	}
	return &Project{Root: root, Deps: d}
}

// abs maps a slash-separated project path to a filesystem path.
func (p *Project) abs(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// render wraps template failures as E_TEMPLATE_FAILED.
func render(r scaffold.Renderer, name scaffold.Name, data any) ([]byte, error) {
	out, err := r.Render(name, data)
	if err != nil {
		return nil, errors.WrapWithDetails(errors.ETemplateFailed, "failed to render template", err,
			map[string]string{"template": string(name)})
	}
	return []byte(out), nil
}

// readIndex reads an index file that must exist.
func (p *Project) readIndex(rel string) (string, error) {
	data, err := p.FS.ReadFile(p.abs(rel))
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewWithDetails(errors.EIndexCorrupt, "index file is missing",
				map[string]string{"file": rel})
		}
		return "", errors.WrapWithDetails(errors.EReadFailed, "failed to read index file", err,
			map[string]string{"file": rel})
	}
	return string(data), nil
}

func corrupt(rel string, err error) error {
	details := map[string]string{"file": rel}
	if pe, ok := err.(*index.ParseError); ok && pe.Line > 0 {
		details["line"] = strconv.Itoa(pe.Line)
	}
	return errors.WrapWithDetails(errors.EIndexCorrupt, "cannot decode "+rel+": "+err.Error(), err, details)
}

// indexes holds the decoded index files of a project.
type indexes struct {
	exports *index.ExportMap
	mounts  map[string]*index.MountList // by route group
}

func (p *Project) loadIndexes() (*indexes, error) {
	text, err := p.readIndex(scaffold.ModelIndexPath)
	if err != nil {
		return nil, err
	}
	exports, err := index.DecodeExportMap(text, p.Sort)
	if err != nil {
		return nil, corrupt(scaffold.ModelIndexPath, err)
	}

	ix := &indexes{exports: exports, mounts: make(map[string]*index.MountList)}
	for _, group := range scaffold.RouteGroups() {
		rel := scaffold.RouteIndexPath(group)
		text, err := p.readIndex(rel)
		if err != nil {
			return nil, err
		}
		mounts, err := index.DecodeMountList(text, p.Sort)
		if err != nil {
			return nil, corrupt(rel, err)
		}
		ix.mounts[group] = mounts
	}
	return ix, nil
}

// stage queues the re-encoded index files on cs.
func (p *Project) stage(cs *Changeset, ix *indexes) {
	cs.Write(p.abs(scaffold.ModelIndexPath), []byte(ix.exports.Encode()), 0644)
	for _, group := range scaffold.RouteGroups() {
		cs.Write(p.abs(scaffold.RouteIndexPath(group)), []byte(ix.mounts[group].Encode()), 0644)
	}
}

// acquire takes the project lock for cmd.
func (p *Project) acquire(cmd string) (func(), error) {
	if p.Lock == nil {
		return func() {}, nil
	}
	unlock, err := p.Lock.Lock(p.Root, cmd)
	if err != nil {
		if le, ok := err.(*lock.ErrLocked); ok {
			return nil, errors.WrapWithDetails(errors.ELocked,
				"another vulegen command is modifying this project", err,
				map[string]string{"lock_file": le.Path})
		}
		return nil, errors.Wrap(errors.EWriteFailed, "failed to acquire project lock", err)
	}
	p.Logger.Debug("lock acquired", "root", p.Root, "cmd", cmd)
	return func() {
		if err := unlock(); err != nil {
			p.Logger.Warn("failed to release project lock", "root", p.Root, "error", err)
		}
	}, nil
}
