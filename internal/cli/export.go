package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jterrazz/photopack/internal/catalog"
	"github.com/jterrazz/photopack/internal/cerrors"
	"github.com/jterrazz/photopack/internal/export"
	"github.com/jterrazz/photopack/internal/model"
	"github.com/jterrazz/photopack/internal/packstore"
	"github.com/jterrazz/photopack/internal/progress"
)

const defaultExportQuality = 85

func newExportCommand() *cobra.Command {
	var quality int
	cmd := &cobra.Command{
		Use:   "export [dir]",
		Short: "Export source-of-truth photos as date-organized HEIC files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if quality < 0 || quality > 100 {
				return fmt.Errorf("quality must be in [0, 100], got %d", quality)
			}

			cat, err := openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			exportPath, err := resolveExportPath(cat, args)
			if err != nil {
				return err
			}

			photos, err := cat.ListAllPhotos()
			if err != nil {
				return err
			}
			groups, err := cat.ListGroups()
			if err != nil {
				return err
			}
			desired := packstore.SelectSots(photos, groups)

			sink := func(ev progress.ExportEvent) {
				switch e := ev.(type) {
				case progress.ExportFileStart:
					fmt.Printf("exporting %s\n", e.Path)
				case progress.ExportFileSkipped:
					fmt.Printf("skipped %s\n", e.Path)
				case progress.ExportComplete:
					fmt.Printf("export complete: exported=%d skipped=%d\n", e.Exported, e.Skipped)
				}
			}

			_, err = export.Export(desired, exportPath, quality, sink)
			return err
		},
	}
	cmd.Flags().IntVar(&quality, "quality", defaultExportQuality, "HEIC encode quality, 0-100")
	return cmd
}

func resolveExportPath(cat *catalog.Catalog, args []string) (string, error) {
	if len(args) == 1 {
		if err := cat.SetConfig(model.ConfigExportPath, args[0]); err != nil {
			return "", err
		}
		return args[0], nil
	}

	path, ok, err := cat.GetConfig(model.ConfigExportPath)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", cerrors.ErrExportPathNotSet
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return "", cerrors.ErrExportPathNotFound
	}
	return path, nil
}
