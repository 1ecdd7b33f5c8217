package project

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NielsdaWheelz/vulegen/internal/fs"
	"github.com/NielsdaWheelz/vulegen/internal/index"
	"github.com/NielsdaWheelz/vulegen/internal/inflect"
	"github.com/NielsdaWheelz/vulegen/internal/lock"
	"github.com/NielsdaWheelz/vulegen/internal/logging"
	"github.com/NielsdaWheelz/vulegen/internal/scaffold"
)

const seedExports = "module.exports = {\n" +
	"\tAdmin: require('./Admin'),\n" +
	"\tUser: require('./User'),\n" +
	"};\n"

const emptyMounts = "const express = require('express');\n" +
	"const router = express.Router();\n" +
	"\n" +
	"module.exports = router;\n"

func testDeps(t *testing.T, fsys fs.FS) Deps {
	t.Helper()
	renderer, err := scaffold.NewRenderer()
	require.NoError(t, err)
	inflector, err := inflect.New(inflect.Config{})
	require.NoError(t, err)
	if fsys == nil {
		fsys = fs.NewRealFS()
	}
	return Deps{
		FS:        fsys,
		Templates: renderer,
		Inflector: inflector,
		Lock:      lock.NewProjectLock(0),
		Sort:      index.SortByKey,
		Logger:    logging.Discard(),
	}
}

// newTestProject initializes a project called "blog" in a temp dir.
func newTestProject(t *testing.T) *Project {
	t.Helper()
	res, err := Init(context.Background(), testDeps(t, nil), t.TempDir(), "blog")
	require.NoError(t, err)
	return res.Project
}

func readRel(t *testing.T, p *Project, rel string) string {
	t.Helper()
	data, err := os.ReadFile(p.abs(rel))
	require.NoError(t, err)
	return string(data)
}

func existsRel(t *testing.T, p *Project, rel string) bool {
	t.Helper()
	_, err := os.Stat(p.abs(rel))
	if os.IsNotExist(err) {
		return false
	}
	require.NoError(t, err)
	return true
}

// snapshotIndexes returns the current bytes of the three index files.
func snapshotIndexes(t *testing.T, p *Project) map[string]string {
	t.Helper()
	out := make(map[string]string)
	for _, rel := range indexPaths() {
		out[rel] = readRel(t, p, rel)
	}
	return out
}

// failingFS fails Rename (and so every atomic write) onto a path ending in
// failSuffix.
type failingFS struct {
	fs.FS
	failSuffix string
}

func (f *failingFS) Rename(oldpath, newpath string) error {
	if strings.HasSuffix(filepath.ToSlash(newpath), f.failSuffix) {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: os.ErrPermission}
	}
	return f.FS.Rename(oldpath, newpath)
}

// recordingFS counts mutating calls.
type recordingFS struct {
	fs.FS
	mu     sync.Mutex
	writes []string
}

func (r *recordingFS) record(op, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, op+" "+path)
}

func (r *recordingFS) MkdirAll(path string, perm os.FileMode) error {
	r.record("mkdir", path)
	return r.FS.MkdirAll(path, perm)
}

func (r *recordingFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	r.record("write", path)
	return r.FS.WriteFile(path, data, perm)
}

func (r *recordingFS) Rename(oldpath, newpath string) error {
	r.record("rename", newpath)
	return r.FS.Rename(oldpath, newpath)
}

func (r *recordingFS) Remove(path string) error {
	r.record("remove", path)
	return r.FS.Remove(path)
}

func (r *recordingFS) RemoveAll(path string) error {
	r.record("removeall", path)
	return r.FS.RemoveAll(path)
}
