package cli

import (
	"fmt"

	bar "github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jterrazz/photopack/internal/orchestrator"
	"github.com/jterrazz/photopack/internal/progress"
)

func newScanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan every registered source and rebuild duplicate groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			var progressBar *bar.ProgressBar
			sink := func(ev progress.ScanEvent) {
				switch e := ev.(type) {
				case progress.SourceStart:
					fmt.Printf("scanning %s\n", e.SourcePath)
					progressBar = bar.Default(int64(e.FileCount), "hashing")
				case progress.FileHashed:
					if progressBar != nil {
						progressBar.Add(1)
					}
				case progress.Removed:
					fmt.Printf("removed stale entry %s\n", e.Path)
				case progress.PhaseComplete:
					if e.Phase == "hash" && progressBar != nil {
						progressBar.Finish()
						progressBar = nil
					}
				case progress.ScanComplete:
					fmt.Printf("scan complete: %d photos, %d duplicate groups\n", e.PhotosScanned, e.GroupsFound)
				}
			}

			return orchestrator.Scan(cat, sink)
		},
	}
}
