package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jterrazz/photopack/internal/catalog"
	"github.com/jterrazz/photopack/internal/cerrors"
	"github.com/jterrazz/photopack/internal/model"
	"github.com/jterrazz/photopack/internal/packstore"
	"github.com/jterrazz/photopack/internal/progress"
)

func newPackCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pack [dir]",
		Short: "Set the vault path, or sync the catalog's source-of-truth photos into it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			vaultPath, err := resolveVaultPath(cat, args)
			if err != nil {
				return err
			}

			store, err := packstore.Open(vaultPath)
			if err != nil {
				return err
			}
			defer store.Close()

			photos, err := cat.ListAllPhotos()
			if err != nil {
				return err
			}
			groups, err := cat.ListGroups()
			if err != nil {
				return err
			}
			desired := packstore.SelectSots(photos, groups)

			sink := func(ev progress.VaultEvent) {
				switch e := ev.(type) {
				case progress.FileCopied:
					fmt.Printf("copied %s\n", e.Path)
				case progress.VaultFileRemoved:
					fmt.Printf("removed %s\n", e.Path)
				case progress.VaultComplete:
					fmt.Printf("pack complete: copied=%d skipped=%d removed=%d\n", e.Copied, e.Skipped, e.Removed)
				}
			}

			_, err = store.Save(desired, sink)
			return err
		},
	}
}

func resolveVaultPath(cat *catalog.Catalog, args []string) (string, error) {
	if len(args) == 1 {
		abs := args[0]
		if err := cat.SetConfig(model.ConfigVaultPath, abs); err != nil {
			return "", err
		}
		return abs, nil
	}

	path, ok, err := cat.GetConfig(model.ConfigVaultPath)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", cerrors.ErrVaultPathNotSet
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return "", cerrors.ErrVaultPathNotFound
	}
	return path, nil
}
