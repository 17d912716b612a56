package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <dir>",
		Short: "Unregister a source directory and its catalog entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			src, photoCount, err := cat.RemoveSource(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("removed source %s (%d photos)\n", src.Path, photoCount)
			return nil
		},
	}
}
