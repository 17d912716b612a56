package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/mitchellh/colorstring"
	"github.com/spf13/cobra"

	"github.com/jterrazz/photopack/internal/catalog"
	"github.com/jterrazz/photopack/internal/model"
	"github.com/jterrazz/photopack/internal/packstore"
	"github.com/jterrazz/photopack/internal/ranking"
)

func newStatusCommand() *cobra.Command {
	var showFiles bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show catalog counts and per-source stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			if err := printSummary(cat); err != nil {
				return err
			}
			if showFiles {
				return printFilesTable(cat)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showFiles, "files", false, "include a per-file role table")
	return cmd
}

func printSummary(cat *catalog.Catalog) error {
	stats, err := cat.StatsSummary()
	if err != nil {
		return err
	}
	sources, err := cat.ListSources()
	if err != nil {
		return err
	}

	fmt.Printf("sources:    %d\n", stats.SourceCount)
	fmt.Printf("photos:     %d\n", stats.PhotoCount)
	fmt.Printf("groups:     %d\n", stats.GroupCount)
	fmt.Printf("duplicates: %d\n", stats.DuplicatePhotos)
	for _, s := range sources {
		scanned := "never"
		if s.LastScanned != nil {
			scanned = fmt.Sprintf("%d", *s.LastScanned)
		}
		fmt.Printf("  %s (last scanned: %s)\n", s.Path, scanned)
	}
	return nil
}

// printFilesTable renders the role (Best Copy / Duplicate / Unique) of
// every photo plus a vault-eligibility flag, with a trailing summary
// line of total/duplicate/unique counts and reclaimable bytes —
// supplemented from original_source/crates/cli/src/commands/status.rs,
// a pure read-side computation over groups + members + sizes.
func printFilesTable(cat *catalog.Catalog) error {
	photos, err := cat.ListAllPhotos()
	if err != nil {
		return err
	}
	groups, err := cat.ListGroups()
	if err != nil {
		return err
	}

	sotByPhoto := make(map[int64]bool)
	groupedByPhoto := make(map[int64]bool)
	for _, g := range groups {
		sotByPhoto[g.SourceOfTruthID] = true
		for _, id := range g.MemberPhotoIDs {
			groupedByPhoto[id] = true
		}
	}
	desired := packstore.SelectSots(photos, groups)
	eligible := make(map[int64]bool, len(desired))
	for _, p := range desired {
		eligible[p.ID] = true
	}

	ordered := ranking.Sort(photos)

	var total, duplicates, unique int
	var reclaimable int64
	for _, p := range ordered {
		role := roleFor(p, sotByPhoto, groupedByPhoto)
		total++
		switch role {
		case "Duplicate":
			duplicates++
			reclaimable += p.Size
		case "Unique":
			unique++
		}
		vaultFlag := "no"
		if eligible[p.ID] {
			vaultFlag = "yes"
		}
		fmt.Printf("%-10s %-6s %-10s %s\n", roleColor(role), vaultFlag, humanize.Bytes(uint64(p.Size)), p.Path)
	}

	fmt.Printf("\ntotal: %d  duplicates: %d  unique: %d  reclaimable: %s\n",
		total, duplicates, unique, humanize.Bytes(uint64(reclaimable)))
	return nil
}

func roleFor(p model.Photo, sotByPhoto, groupedByPhoto map[int64]bool) string {
	switch {
	case sotByPhoto[p.ID]:
		return "Best Copy"
	case groupedByPhoto[p.ID]:
		return "Duplicate"
	default:
		return "Unique"
	}
}

func roleColor(role string) string {
	switch role {
	case "Best Copy":
		return colorstring.Color("[green]" + role + "[reset]")
	case "Duplicate":
		return colorstring.Color("[yellow]" + role + "[reset]")
	default:
		return role
	}
}
