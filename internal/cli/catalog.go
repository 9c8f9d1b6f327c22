package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rrens/room-designer/internal/catalog"
	"github.com/Rrens/room-designer/internal/domain"
)

func newCatalogCmd(load func() (*catalog.Catalog, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the furniture catalog",
	}

	rooms := &cobra.Command{
		Use:   "rooms",
		Short: "List room types and their furniture categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, room := range cat.RoomTypes() {
				cats, _ := cat.Categories(room)
				fmt.Fprintf(out, "%s (%d categories)\n", room, len(cats))
			}
			return nil
		},
	}

	furniture := &cobra.Command{
		Use:   "furniture <room>",
		Short: "List every subtype of a room type with its footprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := load()
			if err != nil {
				return err
			}
			cats, err := cat.Categories(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, c := range cats {
				fmt.Fprintln(out, c)
				subtypes, err := cat.Subtypes(args[0], c)
				if err != nil {
					return err
				}
				for _, st := range subtypes {
					fmt.Fprintf(out, "  %-28s %4.0f x %4.0f x %4.0f in  %6.2f sq ft\n",
						st.Name, st.Width, st.Depth, st.Height, domain.Round2(st.FootprintSqft()))
				}
			}
			return nil
		},
	}

	resolve := &cobra.Command{
		Use:   "resolve <room> <category> [subtype]",
		Short: "Resolve dimensions with catalog fallbacks",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := load()
			if err != nil {
				return err
			}
			subtype := ""
			if len(args) == 3 {
				subtype = args[2]
			}
			return printJSON(cmd.OutOrStdout(), cat.Resolve(args[0], args[1], subtype))
		},
	}

	cmd.AddCommand(rooms, furniture, resolve)
	return cmd
}
