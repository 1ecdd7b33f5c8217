// Command vulegen scaffolds express + mongoose api projects and keeps their
// model and route index files in sync.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/NielsdaWheelz/vulegen/internal/cli"
	"github.com/NielsdaWheelz/vulegen/internal/errors"
)

func main() {
	// VULEGEN_* settings may come from a .env in the working directory.
	_ = godotenv.Load()

	err := cli.Run(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}
