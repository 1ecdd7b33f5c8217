package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/NielsdaWheelz/vulegen/internal/project"
)

// DeleteOpts holds options for the delete command.
type DeleteOpts struct {
	Name string
}

// Delete implements the `vulegen delete <Model>` command.
func Delete(ctx context.Context, p *project.Project, opts DeleteOpts, stdout, stderr io.Writer) error {
	res, err := p.Delete(ctx, opts.Name)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "model: %s\n", res.Model.Singular)
	fmt.Fprintf(stdout, "plural: %s\n", res.Model.Plural)
	fmt.Fprintf(stdout, "files_removed: %s\n", joinOrNone(res.Removed))
	fmt.Fprintf(stdout, "files_rewritten: %s\n", joinOrNone(res.Written))
	for _, rel := range res.Skipped {
		fmt.Fprintf(stderr, "warning: %s was already missing\n", rel)
	}
	return nil
}
