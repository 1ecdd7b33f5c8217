// Package cli handles command-line parsing and dispatch for vulegen.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/NielsdaWheelz/vulegen/internal/commands"
	"github.com/NielsdaWheelz/vulegen/internal/config"
	"github.com/NielsdaWheelz/vulegen/internal/errors"
	"github.com/NielsdaWheelz/vulegen/internal/exec"
	"github.com/NielsdaWheelz/vulegen/internal/fs"
	"github.com/NielsdaWheelz/vulegen/internal/index"
	"github.com/NielsdaWheelz/vulegen/internal/inflect"
	"github.com/NielsdaWheelz/vulegen/internal/lock"
	"github.com/NielsdaWheelz/vulegen/internal/logging"
	"github.com/NielsdaWheelz/vulegen/internal/paths"
	"github.com/NielsdaWheelz/vulegen/internal/project"
	"github.com/NielsdaWheelz/vulegen/internal/scaffold"
	"github.com/NielsdaWheelz/vulegen/internal/version"
)

const usageText = `vulegen - scaffolding generator for express + mongoose apis

usage: vulegen <command> [options]

commands:
  init        create a new project
  add         add a model with its admin and front routers
  delete      remove a model and its routers
  list        list registered models
  doctor      check the project and show resolved settings

options:
  -h, --help      show this help
  -v, --version   show version

run 'vulegen <command> --help' for command-specific help.
`

const commonOptionsText = `  --dir <path>        directory to work in (default: current directory)
  --config <file>     settings file (default: vulegen.yaml in the project
                      or user config directory)
  --verbose           debug logging on stderr
  --log.level <lvl>   debug, info, warn or error
  --log.format <fmt>  text or json
  --inflection.backend <name>
                      pluralize or inflection
  --index.sort <mode> key or line
  --lock.stale_after <duration>
                      age after which a project lock may be broken
  -h, --help          show this help
`

const initUsageText = `usage: vulegen init <name> [options]

create the project <name> under the working directory.

options:
  --install           run npm install in the new project
` + commonOptionsText + `
examples:
  vulegen init blog
  vulegen init blog --install --dir ~/src
`

const addUsageText = `usage: vulegen add <Model> [crud] [options]

add a model schema, its admin and front routers, and register it in the
index files. the optional second argument selects which handlers the routers
get, using the letters c, r, u and d (default: crud).

options:
` + commonOptionsText + `
examples:
  vulegen add Post
  vulegen add categories rd
`

const deleteUsageText = `usage: vulegen delete <Model> [options]

remove a model schema and its routers, and unregister it from the index
files.

options:
` + commonOptionsText + `
examples:
  vulegen delete Post
`

const listUsageText = `usage: vulegen list [options]

list the models registered in models/index.js and where they are mounted.

options:
  --json              machine-readable output
` + commonOptionsText

const doctorUsageText = `usage: vulegen doctor [options]

show resolved settings and tool versions, and check that the index files
agree with the model and router files on disk.

options:
` + commonOptionsText

// Run parses arguments and dispatches to the appropriate subcommand.
// Returns an error if the command fails; the caller should print the error and exit.
func Run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usageText)
		return nil
	}

	cmd := args[0]
	cmdArgs := args[1:]

	// Handle global flags
	if cmd == "-h" || cmd == "--help" {
		fmt.Fprint(stdout, usageText)
		return nil
	}
	if cmd == "-v" || cmd == "--version" {
		fmt.Fprintf(stdout, "vulegen %s\n", version.Version)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cmd {
	case "init":
		return runInit(ctx, cmdArgs, stdout, stderr)
	case "add":
		return runAdd(ctx, cmdArgs, stdout, stderr)
	case "delete":
		return runDelete(ctx, cmdArgs, stdout, stderr)
	case "list":
		return runList(ctx, cmdArgs, stdout, stderr)
	case "doctor":
		return runDoctor(ctx, cmdArgs, stdout, stderr)
	default:
		fmt.Fprint(stdout, usageText)
		return errors.Newf(errors.EUsage, "unknown command: %s", cmd)
	}
}

// commonFlags are accepted by every command.
type commonFlags struct {
	dir     *string
	config  *string
	verbose *bool
}

func newFlagSet(name string) (*pflag.FlagSet, *commonFlags) {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	c := &commonFlags{
		dir:     flagSet.String("dir", "", "directory to work in"),
		config:  flagSet.String("config", "", "settings file"),
		verbose: flagSet.Bool("verbose", false, "debug logging"),
	}
	config.DefineFlags(flagSet)
	return flagSet, c
}

// parse parses args, printing usage and reporting done for -h/--help.
func parse(flagSet *pflag.FlagSet, args []string, usage string, stdout io.Writer) (done bool, err error) {
	if err := flagSet.Parse(args); err != nil {
		if stderrors.Is(err, pflag.ErrHelp) {
			fmt.Fprint(stdout, usage)
			return true, nil
		}
		return false, errors.Wrap(errors.EUsage, "invalid flags", err)
	}
	return false, nil
}

// workDir resolves --dir, defaulting to the current directory.
func workDir(c *commonFlags) (string, error) {
	dir := *c.dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(errors.EInternal, "failed to get working directory", err)
		}
		return cwd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.WrapWithDetails(errors.EUsage, "invalid --dir", err, map[string]string{"dir": dir})
	}
	return abs, nil
}

// env is the resolved environment of one command invocation.
type env struct {
	dir       string
	configDir string
	cfg       *config.Config
	deps      project.Deps
}

// setup resolves the working directory and settings, and builds the
// project dependencies.
func setup(flagSet *pflag.FlagSet, c *commonFlags, stderr io.Writer) (*env, error) {
	dir, err := workDir(c)
	if err != nil {
		return nil, err
	}
	configDir := paths.UserConfigDir()

	cfg, err := config.Load(config.Options{
		ConfigFile: *c.config,
		SearchDirs: []string{dir, configDir},
		Flags:      flagSet,
	})
	if err != nil {
		return nil, err
	}

	deps, err := buildDeps(cfg, stderr)
	if err != nil {
		return nil, err
	}
	deps.Logger.Debug("settings resolved", "dir", dir, "config_file", cfg.File,
		"index_sort", cfg.Index.Sort, "inflection_backend", cfg.Inflection.Backend)

	return &env{dir: dir, configDir: configDir, cfg: cfg, deps: deps}, nil
}

func buildDeps(cfg *config.Config, stderr io.Writer) (project.Deps, error) {
	renderer, err := scaffold.NewRenderer()
	if err != nil {
		return project.Deps{}, errors.Wrap(errors.EInternal, "failed to load templates", err)
	}
	inflector, err := inflect.New(cfg.Inflection)
	if err != nil {
		return project.Deps{}, err
	}
	sortMode, err := index.ParseSortMode(cfg.Index.Sort)
	if err != nil {
		return project.Deps{}, errors.WrapWithDetails(errors.EConfigInvalid, err.Error(), err,
			map[string]string{"field": "index.sort"})
	}

	logCfg := cfg.Log
	logCfg.Output = stderr

	return project.Deps{
		FS:        fs.NewRealFS(),
		Templates: renderer,
		Inflector: inflector,
		Lock:      lock.NewProjectLock(cfg.Lock.StaleAfter),
		Sort:      sortMode,
		Logger:    logging.New(logCfg),
	}, nil
}

func runInit(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flagSet, common := newFlagSet("init")
	install := flagSet.Bool("install", false, "run npm install in the new project")

	if done, err := parse(flagSet, args, initUsageText, stdout); done || err != nil {
		return err
	}

	// name is a required positional argument
	positionalArgs := flagSet.Args()
	if len(positionalArgs) < 1 {
		fmt.Fprint(stderr, initUsageText)
		return errors.New(errors.EMissingName, "project name is required")
	}
	if len(positionalArgs) > 1 {
		return errors.Newf(errors.EUsage, "unexpected argument: %s", positionalArgs[1])
	}

	e, err := setup(flagSet, common, stderr)
	if err != nil {
		return err
	}

	opts := commands.InitOpts{
		Name:    positionalArgs[0],
		Install: *install,
	}
	return commands.Init(ctx, e.deps, exec.NewRealRunner(), e.dir, opts, stdout, stderr)
}

func runAdd(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flagSet, common := newFlagSet("add")

	if done, err := parse(flagSet, args, addUsageText, stdout); done || err != nil {
		return err
	}

	positionalArgs := flagSet.Args()
	if len(positionalArgs) < 1 {
		fmt.Fprint(stderr, addUsageText)
		return errors.New(errors.EMissingName, "model name is required")
	}
	if len(positionalArgs) > 2 {
		return errors.Newf(errors.EUsage, "unexpected argument: %s", positionalArgs[2])
	}
	opts := commands.AddOpts{Name: positionalArgs[0]}
	if len(positionalArgs) == 2 {
		if positionalArgs[1] == "" {
			return errors.New(errors.EUsage, "route subset must not be empty")
		}
		opts.Routes = positionalArgs[1]
	}

	e, err := setup(flagSet, common, stderr)
	if err != nil {
		return err
	}
	return commands.Add(ctx, project.New(e.dir, e.deps), opts, stdout, stderr)
}

func runDelete(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flagSet, common := newFlagSet("delete")

	if done, err := parse(flagSet, args, deleteUsageText, stdout); done || err != nil {
		return err
	}

	positionalArgs := flagSet.Args()
	if len(positionalArgs) < 1 {
		fmt.Fprint(stderr, deleteUsageText)
		return errors.New(errors.EMissingName, "model name is required")
	}
	if len(positionalArgs) > 1 {
		return errors.Newf(errors.EUsage, "unexpected argument: %s", positionalArgs[1])
	}

	e, err := setup(flagSet, common, stderr)
	if err != nil {
		return err
	}
	opts := commands.DeleteOpts{Name: positionalArgs[0]}
	return commands.Delete(ctx, project.New(e.dir, e.deps), opts, stdout, stderr)
}

func runList(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flagSet, common := newFlagSet("list")
	asJSON := flagSet.Bool("json", false, "machine-readable output")

	if done, err := parse(flagSet, args, listUsageText, stdout); done || err != nil {
		return err
	}
	if extra := flagSet.Args(); len(extra) > 0 {
		return errors.Newf(errors.EUsage, "unexpected argument: %s", extra[0])
	}

	e, err := setup(flagSet, common, stderr)
	if err != nil {
		return err
	}
	return commands.List(ctx, project.New(e.dir, e.deps), commands.ListOpts{JSON: *asJSON}, stdout, stderr)
}

func runDoctor(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flagSet, common := newFlagSet("doctor")

	if done, err := parse(flagSet, args, doctorUsageText, stdout); done || err != nil {
		return err
	}
	if extra := flagSet.Args(); len(extra) > 0 {
		return errors.Newf(errors.EUsage, "unexpected argument: %s", extra[0])
	}

	e, err := setup(flagSet, common, stderr)
	if err != nil {
		return err
	}
	return commands.Doctor(ctx, project.New(e.dir, e.deps), exec.NewRealRunner(), e.cfg, e.configDir, stdout, stderr)
}
