package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/NielsdaWheelz/vulegen/internal/errors"
	"github.com/NielsdaWheelz/vulegen/internal/project"
	"github.com/NielsdaWheelz/vulegen/internal/render"
	"github.com/NielsdaWheelz/vulegen/internal/scaffold"
)

// ListOpts holds options for the list command.
type ListOpts struct {
	JSON bool
}

// List implements the `vulegen list` command.
func List(ctx context.Context, p *project.Project, opts ListOpts, stdout, stderr io.Writer) error {
	models, err := p.List(ctx)
	if err != nil {
		return err
	}

	summaries := make([]render.ModelSummary, 0, len(models))
	for _, m := range models {
		summaries = append(summaries, render.ModelSummary{
			Name:         m.Name,
			Plural:       m.Plural,
			AdminMounted: m.Mounts[scaffold.RouteGroupAdmin],
			FrontMounted: m.Mounts[scaffold.RouteGroupFront],
		})
	}

	if opts.JSON {
		if err := render.WriteListJSON(stdout, p.Root, summaries); err != nil {
			return errors.Wrap(errors.EInternal, "failed to write json output", err)
		}
		return nil
	}

	if len(summaries) == 0 {
		fmt.Fprintln(stdout, "models: none")
		return nil
	}
	if err := render.WriteListHuman(stdout, render.FormatModelRows(summaries)); err != nil {
		return errors.Wrap(errors.EInternal, "failed to write output", err)
	}
	return nil
}
