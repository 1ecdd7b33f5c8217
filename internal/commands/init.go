// Package commands implements vulegen CLI commands.
package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/NielsdaWheelz/vulegen/internal/errors"
	"github.com/NielsdaWheelz/vulegen/internal/exec"
	"github.com/NielsdaWheelz/vulegen/internal/project"
)

// InitOpts holds options for the init command.
type InitOpts struct {
	Name    string
	Install bool // run npm install in the new project
}

// Init implements the `vulegen init <name>` command.
// Creates the project directory under dir and, with --install, installs its
// npm dependencies.
func Init(ctx context.Context, deps project.Deps, cr exec.CommandRunner, dir string, opts InitOpts, stdout, stderr io.Writer) error {
	res, err := project.Init(ctx, deps, dir, opts.Name)
	if err != nil {
		return err
	}

	installed := "skipped"
	if opts.Install {
		if err := npmInstall(ctx, cr, res.Project.Root, stderr); err != nil {
			// The project itself was created; report it before failing.
			writeInitOutput(stdout, res, "failed")
			return err
		}
		installed = "ok"
	}

	writeInitOutput(stdout, res, installed)
	return nil
}

func npmInstall(ctx context.Context, cr exec.CommandRunner, root string, progress io.Writer) error {
	res, err := cr.Run(ctx, "npm", []string{"install"}, exec.RunOpts{Dir: root, Tee: progress})
	if err != nil {
		return errors.Wrap(errors.EInstallFailed, "failed to run npm install; is npm on PATH?", err)
	}
	if res.ExitCode != 0 {
		return errors.NewWithDetails(errors.EInstallFailed, "npm install failed",
			map[string]string{"exit_code": fmt.Sprint(res.ExitCode)})
	}
	return nil
}

// writeInitOutput writes the stable key: value output for init.
func writeInitOutput(w io.Writer, res project.InitResult, installed string) {
	fmt.Fprintf(w, "project: %s\n", res.Name)
	fmt.Fprintf(w, "root: %s\n", res.Project.Root)
	fmt.Fprintf(w, "files_created: %d\n", len(res.Files))
	fmt.Fprintf(w, "npm_install: %s\n", installed)

	next := fmt.Sprintf("cd %s", filepath.Base(res.Project.Root))
	if installed != "ok" {
		next += " && npm install"
	}
	fmt.Fprintf(w, "next: %s && npm run dev\n", next)
}
