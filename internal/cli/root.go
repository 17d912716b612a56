// Package cli implements photopack's cobra command tree: add, rm,
// scan, status, dupes, pack, export. Generalizes the teacher's
// hand-rolled os.Args parser in util/cli.go into a typed,
// multi-subcommand surface via github.com/spf13/cobra.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jterrazz/photopack/internal/catalog"
)

var catalogPath string

// NewRootCommand builds the photopack root cobra command.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "photopack",
		Short:         "Local photo deduplication and archival engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&catalogPath, "catalog", defaultCatalogPath(), "path to the catalog database")

	root.AddCommand(
		newAddCommand(),
		newRmCommand(),
		newScanCommand(),
		newStatusCommand(),
		newDupesCommand(),
		newPackCommand(),
		newExportCommand(),
	)
	return root
}

// defaultCatalogPath is ${HOME}/.photopack/catalog.db, per spec.md §6.
func defaultCatalogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".photopack", "catalog.db")
}

func openCatalog() (*catalog.Catalog, error) {
	return catalog.Open(catalogPath)
}

// Execute runs the root command and returns a process exit code:
// non-zero whenever an error surfaces, per spec.md §6.
func Execute() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
