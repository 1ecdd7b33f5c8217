package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NielsdaWheelz/vulegen/internal/errors"
	"github.com/NielsdaWheelz/vulegen/internal/logging"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Bool("verbose", false, "")
	fs.String("dir", "", "")
	DefineFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "pluralize", cfg.Inflection.Backend)
	assert.Equal(t, "key", cfg.Index.Sort)
	assert.Equal(t, 10*time.Minute, cfg.Lock.StaleAfter)
	assert.Empty(t, cfg.File)
}

func TestLoad_SearchDirFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "vulegen.yaml", `
log:
  format: json
inflection:
  backend: inflection
  plural_overrides:
    person: persons
index:
  sort: line
lock:
  stale_after: 90s
`)

	cfg, err := Load(Options{SearchDirs: []string{dir}})
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "inflection", cfg.Inflection.Backend)
	assert.Equal(t, map[string]string{"person": "persons"}, cfg.Inflection.PluralOverrides)
	assert.Equal(t, "line", cfg.Index.Sort)
	assert.Equal(t, 90*time.Second, cfg.Lock.StaleAfter)
}

func TestLoad_SearchDirsFirstWins(t *testing.T) {
	project, user := t.TempDir(), t.TempDir()
	writeFile(t, project, "vulegen.yaml", "index:\n  sort: line\n")
	writeFile(t, user, "vulegen.yaml", "index:\n  sort: key\n")

	cfg, err := Load(Options{SearchDirs: []string{project, user}})
	require.NoError(t, err)
	assert.Equal(t, "line", cfg.Index.Sort)
}

func TestLoad_MissingSearchFileIsFine(t *testing.T) {
	cfg, err := Load(Options{SearchDirs: []string{t.TempDir()}})
	require.NoError(t, err)
	assert.Empty(t, cfg.File)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "custom.yaml")
	_, err := Load(Options{ConfigFile: missing})
	require.Error(t, err)
	assert.Equal(t, errors.EConfigInvalid, errors.GetCode(err))
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.yaml", "index:\n  order: key\n")

	_, err := Load(Options{ConfigFile: path})
	require.Error(t, err)
	assert.Equal(t, errors.EConfigInvalid, errors.GetCode(err))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "vulegen.yaml", "log:\n  level: warn\n")
	t.Setenv("VULEGEN_LOG_LEVEL", "error")

	cfg, err := Load(Options{SearchDirs: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("VULEGEN_INDEX_SORT", "key")

	cfg, err := Load(Options{Flags: newFlags(t, "--index.sort=line", "--lock.stale_after=2m")})
	require.NoError(t, err)
	assert.Equal(t, "line", cfg.Index.Sort)
	assert.Equal(t, 2*time.Minute, cfg.Lock.StaleAfter)
}

func TestLoad_UnchangedFlagsDoNotOverride(t *testing.T) {
	t.Setenv("VULEGEN_INDEX_SORT", "line")

	cfg, err := Load(Options{Flags: newFlags(t)})
	require.NoError(t, err)
	assert.Equal(t, "line", cfg.Index.Sort)
}

func TestLoad_VerboseImpliesDebug(t *testing.T) {
	cfg, err := Load(Options{Flags: newFlags(t, "--verbose", "--dir=/tmp")})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		flag  string
		field string
	}{
		{"sort", "--index.sort=random", "index.sort"},
		{"backend", "--inflection.backend=nope", "inflection.backend"},
		{"level", "--log.level=loud", "log.level"},
		{"format", "--log.format=xml", "log.format"},
		{"stale", "--lock.stale_after=0s", "lock.stale_after"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(Options{Flags: newFlags(t, tt.flag)})
			require.Error(t, err)

			ve, ok := errors.AsVulegenError(err)
			require.True(t, ok)
			assert.Equal(t, errors.EConfigInvalid, ve.Code)
			assert.Equal(t, tt.field, ve.Details["field"])
		})
	}
}

func TestValidate_NormalizesCase(t *testing.T) {
	cfg := &Config{
		Log:   logging.Config{Level: "DEBUG", Format: "JSON"},
		Index: IndexConfig{Sort: "LINE"},
		Lock:  LockConfig{StaleAfter: time.Minute},
	}
	require.NoError(t, Validate(cfg))
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "line", cfg.Index.Sort)
}

func TestValidate_OverrideWords(t *testing.T) {
	cfg := &Config{Lock: LockConfig{StaleAfter: time.Minute}}
	cfg.Inflection.PluralOverrides = map[string]string{"person": "per sons"}

	err := Validate(cfg)
	require.Error(t, err)
	ve, ok := errors.AsVulegenError(err)
	require.True(t, ok)
	assert.Equal(t, "inflection.plural_overrides", ve.Details["field"])
}

func TestStringToStringMapHook(t *testing.T) {
	dir := t.TempDir()
	// An env-style scalar in the file exercises the same decode path.
	path := writeFile(t, dir, "custom.yaml", "inflection:\n  singular_overrides: \"data=datum, media=medium\"\n")

	cfg, err := Load(Options{ConfigFile: path})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"data": "datum", "media": "medium"}, cfg.Inflection.SingularOverrides)
}
