package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/NielsdaWheelz/vulegen/internal/config"
	"github.com/NielsdaWheelz/vulegen/internal/errors"
	"github.com/NielsdaWheelz/vulegen/internal/exec"
	"github.com/NielsdaWheelz/vulegen/internal/project"
)

// DoctorReport holds all the data for doctor output.
type DoctorReport struct {
	// Project and settings
	Root              string
	ConfigFile        string
	ConfigDir         string
	IndexSort         string
	InflectionBackend string

	// Tooling
	NodeVersion string
	NpmVersion  string

	// Consistency
	Check project.CheckReport
}

// Doctor implements the `vulegen doctor` command.
// Reports resolved settings and tool versions, and checks that the index
// files agree with the model and router files on disk.
// Returns E_INCONSISTENT when they do not.
func Doctor(ctx context.Context, p *project.Project, cr exec.CommandRunner, cfg *config.Config, configDir string, stdout, stderr io.Writer) error {
	check, err := p.Check(ctx)
	if err != nil {
		return err
	}

	report := DoctorReport{
		Root:              p.Root,
		ConfigFile:        cfg.File,
		ConfigDir:         configDir,
		IndexSort:         cfg.Index.Sort,
		InflectionBackend: cfg.Inflection.Backend,
		NodeVersion:       exec.Version(ctx, cr, "node"),
		NpmVersion:        exec.Version(ctx, cr, "npm"),
		Check:             check,
	}
	writeDoctorOutput(stdout, report)

	if report.NodeVersion == "" {
		fmt.Fprintln(stderr, "warning: node not found on PATH; the generated project needs it to run")
	}
	if !check.OK() {
		return errors.NewWithDetails(errors.EInconsistent, "index files disagree with the files on disk",
			map[string]string{"hint": "re-run 'vulegen add' or 'vulegen delete', or edit the index files by hand"})
	}
	return nil
}

// writeDoctorOutput writes the stable key: value output.
func writeDoctorOutput(w io.Writer, r DoctorReport) {
	fmt.Fprintf(w, "root: %s\n", r.Root)
	fmt.Fprintf(w, "config_file: %s\n", orNone(r.ConfigFile))
	fmt.Fprintf(w, "config_dir: %s\n", orNone(r.ConfigDir))
	fmt.Fprintf(w, "index_sort: %s\n", r.IndexSort)
	fmt.Fprintf(w, "inflection_backend: %s\n", r.InflectionBackend)

	fmt.Fprintf(w, "node_version: %s\n", orMissing(r.NodeVersion))
	fmt.Fprintf(w, "npm_version: %s\n", orMissing(r.NpmVersion))

	fmt.Fprintf(w, "models: %d\n", len(r.Check.Models))
	fmt.Fprintf(w, "missing_model_files: %s\n", joinOrNone(r.Check.MissingModelFiles))
	fmt.Fprintf(w, "unregistered_model_files: %s\n", joinOrNone(r.Check.UnregisteredModelFiles))
	fmt.Fprintf(w, "missing_route_files: %s\n", joinOrNone(r.Check.MissingRouteFiles))
	fmt.Fprintf(w, "unmounted_route_files: %s\n", joinOrNone(r.Check.UnmountedRouteFiles))

	if r.Check.OK() {
		fmt.Fprintln(w, "status: ok")
	} else {
		fmt.Fprintln(w, "status: inconsistent")
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func orMissing(s string) string {
	if s == "" {
		return "missing"
	}
	return s
}
