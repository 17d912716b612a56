package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <dir>",
		Short: "Register a source directory to scan for photos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			src, err := cat.AddSource(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("added source %s\n", src.Path)
			return nil
		},
	}
}
