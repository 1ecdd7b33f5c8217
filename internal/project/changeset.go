package project

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/NielsdaWheelz/vulegen/internal/errors"
	"github.com/NielsdaWheelz/vulegen/internal/fs"
)

type opKind int

const (
	opWrite opKind = iota
	opRemove
)

func (k opKind) String() string {
	if k == opRemove {
		return "remove"
	}
	return "write"
}

type op struct {
	kind opKind
	path string
	data []byte
	perm os.FileMode
}

// undo restores one path to what it held before an applied op.
type undo struct {
	path    string
	existed bool
	data    []byte
	perm    os.FileMode
}

// Changeset is an ordered list of file writes and removals that is applied
// as a unit: the first failure rolls back every op already applied, in
// reverse order.
//
// Parent directories must exist before Apply.
type Changeset struct {
	fs  fs.FS
	log *slog.Logger
	ops []op
}

// NewChangeset returns an empty Changeset over fsys.
func NewChangeset(fsys fs.FS, log *slog.Logger) *Changeset {
	return &Changeset{fs: fsys, log: log}
}

// Write stages an atomic write of data to path.
func (c *Changeset) Write(path string, data []byte, perm os.FileMode) {
	c.ops = append(c.ops, op{kind: opWrite, path: path, data: data, perm: perm})
}

// Remove stages removal of path. A path that is already gone at apply time
// is skipped.
func (c *Changeset) Remove(path string) {
	c.ops = append(c.ops, op{kind: opRemove, path: path})
}

// Apply runs the staged ops in order. On the first failure, or when ctx is
// cancelled between ops, it rolls back and returns E_WRITE_FAILED. Rollback
// problems are logged and reported in the error details.
func (c *Changeset) Apply(ctx context.Context) error {
	undos := make([]undo, 0, len(c.ops))

	for _, o := range c.ops {
		if err := ctx.Err(); err != nil {
			return c.fail(undos, o, err)
		}

		u, err := c.snapshot(o.path)
		if err != nil {
			return c.fail(undos, o, err)
		}

		switch o.kind {
		case opWrite:
			err = fs.WriteFileAtomic(c.fs, o.path, o.data, o.perm)
		case opRemove:
			if !u.existed {
				c.log.Debug("skip remove of missing file", "path", o.path)
				continue
			}
			err = c.fs.Remove(o.path)
		}
		if err != nil {
			return c.fail(undos, o, err)
		}
		undos = append(undos, u)
		c.log.Debug("applied", "op", o.kind.String(), "path", o.path)
	}
	return nil
}

func (c *Changeset) snapshot(path string) (undo, error) {
	data, existed, err := fs.ReadFileIfExists(c.fs, path)
	if err != nil {
		return undo{}, err
	}
	u := undo{path: path, existed: existed, data: data, perm: 0644}
	if existed {
		if info, statErr := c.fs.Stat(path); statErr == nil {
			u.perm = info.Mode().Perm()
		}
	}
	return u, nil
}

// fail rolls back undos and builds the E_WRITE_FAILED error for failed.
func (c *Changeset) fail(undos []undo, failed op, cause error) error {
	c.log.Warn("change failed, rolling back", "op", failed.kind.String(), "path", failed.path, "applied", len(undos), "error", cause)

	var problems []string
	for i := len(undos) - 1; i >= 0; i-- {
		u := undos[i]
		var err error
		if u.existed {
			err = fs.WriteFileAtomic(c.fs, u.path, u.data, u.perm)
		} else {
			err = c.fs.Remove(u.path)
			if os.IsNotExist(err) {
				err = nil
			}
		}
		if err != nil {
			c.log.Error("rollback failed", "path", u.path, "error", err)
			problems = append(problems, fmt.Sprintf("%s (%v)", u.path, err))
		}
	}

	details := map[string]string{
		"path":     failed.path,
		"rollback": "ok",
	}
	if len(problems) > 0 {
		details["rollback"] = "incomplete: " + strings.Join(problems, "; ")
	}
	return errors.WrapWithDetails(errors.EWriteFailed,
		fmt.Sprintf("failed to %s %s", failed.kind, failed.path), cause, details)
}
