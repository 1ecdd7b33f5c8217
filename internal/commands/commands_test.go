package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NielsdaWheelz/vulegen/internal/config"
	"github.com/NielsdaWheelz/vulegen/internal/errors"
	"github.com/NielsdaWheelz/vulegen/internal/exec"
	"github.com/NielsdaWheelz/vulegen/internal/fs"
	"github.com/NielsdaWheelz/vulegen/internal/index"
	"github.com/NielsdaWheelz/vulegen/internal/inflect"
	"github.com/NielsdaWheelz/vulegen/internal/lock"
	"github.com/NielsdaWheelz/vulegen/internal/logging"
	"github.com/NielsdaWheelz/vulegen/internal/project"
	"github.com/NielsdaWheelz/vulegen/internal/render"
	"github.com/NielsdaWheelz/vulegen/internal/scaffold"
)

// stubRunner records calls and answers with a fixed result.
type stubRunner struct {
	calls    []string
	exitCode int
	err      error
	stdout   string
}

func (s *stubRunner) Run(ctx context.Context, name string, args []string, opts exec.RunOpts) (exec.CmdResult, error) {
	s.calls = append(s.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")+" @"+opts.Dir))
	return exec.CmdResult{Stdout: s.stdout, ExitCode: s.exitCode}, s.err
}

func testDeps(t *testing.T) project.Deps {
	t.Helper()
	renderer, err := scaffold.NewRenderer()
	require.NoError(t, err)
	inflector, err := inflect.New(inflect.Config{})
	require.NoError(t, err)
	return project.Deps{
		FS:        fs.NewRealFS(),
		Templates: renderer,
		Inflector: inflector,
		Lock:      lock.NewProjectLock(0),
		Sort:      index.SortByKey,
		Logger:    logging.Discard(),
	}
}

func initProject(t *testing.T) *project.Project {
	t.Helper()
	res, err := project.Init(context.Background(), testDeps(t), t.TempDir(), "blog")
	require.NoError(t, err)
	return res.Project
}

func TestInit_Output(t *testing.T) {
	dir := t.TempDir()
	cr := &stubRunner{}
	var stdout, stderr bytes.Buffer

	err := Init(context.Background(), testDeps(t), cr, dir, InitOpts{Name: "blog"}, &stdout, &stderr)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "project: blog\n")
	assert.Contains(t, out, "root: "+filepath.Join(dir, "blog")+"\n")
	assert.Contains(t, out, "files_created: 16\n")
	assert.Contains(t, out, "npm_install: skipped\n")
	assert.Contains(t, out, "next: cd blog && npm install && npm run dev\n")
	assert.Empty(t, cr.calls, "npm must not run without --install")
}

func TestInit_Install(t *testing.T) {
	dir := t.TempDir()
	cr := &stubRunner{}
	var stdout, stderr bytes.Buffer

	err := Init(context.Background(), testDeps(t), cr, dir, InitOpts{Name: "blog", Install: true}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, []string{"npm install @" + filepath.Join(dir, "blog")}, cr.calls)
	assert.Contains(t, stdout.String(), "npm_install: ok\n")
	assert.Contains(t, stdout.String(), "next: cd blog && npm run dev\n")
}

func TestInit_InstallFailureKeepsProject(t *testing.T) {
	dir := t.TempDir()
	cr := &stubRunner{exitCode: 1}
	var stdout, stderr bytes.Buffer

	err := Init(context.Background(), testDeps(t), cr, dir, InitOpts{Name: "blog", Install: true}, &stdout, &stderr)
	require.Error(t, err)
	assert.Equal(t, errors.EInstallFailed, errors.GetCode(err))
	assert.Contains(t, stdout.String(), "npm_install: failed\n")

	_, statErr := os.Stat(filepath.Join(dir, "blog", "package.json"))
	assert.NoError(t, statErr)
}

func TestInit_MissingName(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := Init(context.Background(), testDeps(t), &stubRunner{}, t.TempDir(), InitOpts{}, &stdout, &stderr)
	assert.Equal(t, errors.EMissingName, errors.GetCode(err))
	assert.Equal(t, 2, errors.ExitCode(err))
	assert.Empty(t, stdout.String())
}

func TestAdd_Output(t *testing.T) {
	p := initProject(t)
	var stdout, stderr bytes.Buffer

	err := Add(context.Background(), p, AddOpts{Name: "post", Routes: "dr"}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "model: Post\n"+
		"plural: posts\n"+
		"routes: rd\n"+
		"files_written: models/Post.js, routes/admin/posts.js, routes/front/posts.js, models/index.js, routes/admin/index.js, routes/front/index.js\n",
		stdout.String())
}

func TestAdd_InvalidRoutes(t *testing.T) {
	p := initProject(t)
	var stdout, stderr bytes.Buffer

	err := Add(context.Background(), p, AddOpts{Name: "post", Routes: "crux"}, &stdout, &stderr)
	require.Error(t, err)
	assert.Equal(t, errors.EUsage, errors.GetCode(err))

	_, statErr := os.Stat(filepath.Join(p.Root, "models", "Post.js"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDelete_OutputAndWarnings(t *testing.T) {
	p := initProject(t)
	var stdout, stderr bytes.Buffer

	err := Delete(context.Background(), p, DeleteOpts{Name: "User"}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "model: User\n")
	assert.Contains(t, stdout.String(), "files_removed: models/User.js\n")
	assert.Contains(t, stderr.String(), "warning: routes/admin/users.js was already missing\n")
	assert.Contains(t, stderr.String(), "warning: routes/front/users.js was already missing\n")
}

func TestList_Human(t *testing.T) {
	p := initProject(t)
	require.NoError(t, Add(context.Background(), p, AddOpts{Name: "post"}, new(bytes.Buffer), new(bytes.Buffer)))

	var stdout bytes.Buffer
	require.NoError(t, List(context.Background(), p, ListOpts{}, &stdout, new(bytes.Buffer)))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "MODEL"))
	assert.Contains(t, lines[2], "/posts")
}

func TestList_Empty(t *testing.T) {
	p := initProject(t)
	for _, name := range []string{"Admin", "User"} {
		require.NoError(t, Delete(context.Background(), p, DeleteOpts{Name: name}, new(bytes.Buffer), new(bytes.Buffer)))
	}

	var stdout bytes.Buffer
	require.NoError(t, List(context.Background(), p, ListOpts{}, &stdout, new(bytes.Buffer)))
	assert.Equal(t, "models: none\n", stdout.String())
}

func TestList_JSON(t *testing.T) {
	p := initProject(t)
	var stdout bytes.Buffer
	require.NoError(t, List(context.Background(), p, ListOpts{JSON: true}, &stdout, new(bytes.Buffer)))

	var env render.ListJSONEnvelope
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &env))
	assert.Equal(t, p.Root, env.Root)
	require.Len(t, env.Data, 2)
	assert.Equal(t, "Admin", env.Data[0].Name)
	assert.Equal(t, "admins", env.Data[0].Plural)
	assert.False(t, env.Data[0].AdminMounted)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Index.Sort = "key"
	cfg.Inflection.Backend = "pluralize"
	cfg.Lock.StaleAfter = 10 * time.Minute
	return cfg
}

func TestDoctor_OK(t *testing.T) {
	p := initProject(t)
	cr := &stubRunner{stdout: "v20.11.0\n"}
	var stdout, stderr bytes.Buffer

	err := Doctor(context.Background(), p, cr, testConfig(), "/home/u/.config/vulegen", &stdout, &stderr)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "root: "+p.Root+"\n")
	assert.Contains(t, out, "config_file: none\n")
	assert.Contains(t, out, "config_dir: /home/u/.config/vulegen\n")
	assert.Contains(t, out, "node_version: v20.11.0\n")
	assert.Contains(t, out, "models: 2\n")
	assert.Contains(t, out, "status: ok\n")
	assert.Empty(t, stderr.String())
}

func TestDoctor_Inconsistent(t *testing.T) {
	p := initProject(t)
	require.NoError(t, os.Remove(filepath.Join(p.Root, "models", "Admin.js")))
	cr := &stubRunner{exitCode: 127}
	var stdout, stderr bytes.Buffer

	err := Doctor(context.Background(), p, cr, testConfig(), "", &stdout, &stderr)
	require.Error(t, err)
	assert.Equal(t, errors.EInconsistent, errors.GetCode(err))

	out := stdout.String()
	assert.Contains(t, out, "node_version: missing\n")
	assert.Contains(t, out, "missing_model_files: models/Admin.js\n")
	assert.Contains(t, out, "status: inconsistent\n")
	assert.Contains(t, stderr.String(), "warning: node not found")
}

func TestDoctor_NotAProject(t *testing.T) {
	p := project.New(t.TempDir(), testDeps(t))
	var stdout bytes.Buffer
	err := Doctor(context.Background(), p, &stubRunner{}, testConfig(), "", &stdout, new(bytes.Buffer))
	assert.Equal(t, errors.ENotAProject, errors.GetCode(err))
	assert.Empty(t, stdout.String())
}
