package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/NielsdaWheelz/vulegen/internal/errors"
	"github.com/NielsdaWheelz/vulegen/internal/project"
	"github.com/NielsdaWheelz/vulegen/internal/scaffold"
)

// AddOpts holds options for the add command.
type AddOpts struct {
	Name   string
	Routes string // letters from "crud"; empty means all
}

// Add implements the `vulegen add <Model> [crud]` command.
func Add(ctx context.Context, p *project.Project, opts AddOpts, stdout, stderr io.Writer) error {
	actions := scaffold.AllActions
	if opts.Routes != "" {
		parsed, err := scaffold.ParseActions(opts.Routes)
		if err != nil {
			return errors.Wrap(errors.EUsage, err.Error(), err)
		}
		actions = parsed
	}

	res, err := p.Add(ctx, opts.Name, project.AddOpts{Actions: actions})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "model: %s\n", res.Model.Singular)
	fmt.Fprintf(stdout, "plural: %s\n", res.Model.Plural)
	fmt.Fprintf(stdout, "routes: %s\n", actions)
	fmt.Fprintf(stdout, "files_written: %s\n", joinOrNone(res.Written))
	return nil
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
