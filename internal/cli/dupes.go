package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jterrazz/photopack/internal/catalog"
	"github.com/jterrazz/photopack/internal/model"
)

func newDupesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dupes [group_id]",
		Short: "List duplicate groups, or the members of a single group",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			if len(args) == 1 {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid group id %q", args[0])
				}
				group, err := cat.GetGroup(id)
				if err != nil {
					return err
				}
				return printGroup(cat, group)
			}

			groups, err := cat.ListGroups()
			if err != nil {
				return err
			}
			for _, g := range groups {
				fmt.Printf("group %d: confidence=%s members=%d sot=%d\n",
					g.ID, g.Confidence, len(g.MemberPhotoIDs), g.SourceOfTruthID)
			}
			return nil
		},
	}
}

func printGroup(cat *catalog.Catalog, g model.DuplicateGroup) error {
	photos, err := cat.GetPhotosByIDs(g.MemberPhotoIDs)
	if err != nil {
		return err
	}
	fmt.Printf("group %d (confidence=%s)\n", g.ID, g.Confidence)
	for _, p := range photos {
		marker := " "
		if p.ID == g.SourceOfTruthID {
			marker = "*"
		}
		fmt.Printf(" %s %s\n", marker, p.Path)
	}
	return nil
}
