package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rrens/room-designer/internal/capacity"
	"github.com/Rrens/room-designer/internal/catalog"
	"github.com/Rrens/room-designer/internal/domain"
)

type fitReport struct {
	Room      domain.RoomSpec             `json:"room"`
	Furniture []domain.FurnitureFootprint `json:"furniture"`
	Admission capacity.AdmissionResult    `json:"admission"`
	Verdict   capacity.FitVerdict         `json:"verdict"`
}

func newFitCmd(load func() (*catalog.Catalog, error)) *cobra.Command {
	var (
		room          string
		length, width float64
		height        float64
		maxPercentage float64
		items         []string
	)

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Check whether furniture fits a room without a running server",
		Example: `  roomctl fit --room "Living Room Furniture" --length 12 --width 15 \
    --item "Sofa/3-Seater Sofa" --item "Coffee Table/Round Coffee Table"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := load()
			if err != nil {
				return err
			}
			dims, err := domain.NewRoomSpec(length, width, height)
			if err != nil {
				return err
			}

			var footprints []domain.FurnitureFootprint
			for _, item := range items {
				category, subtype, ok := strings.Cut(item, "/")
				if !ok {
					return fmt.Errorf("item %q must be Category/Subtype", item)
				}
				fp, err := cat.Footprint(room, category, subtype)
				if err != nil {
					return err
				}
				footprints = append(footprints, fp)
			}

			admission, err := capacity.CheckAdmission(0, domain.SumArea(footprints), dims.FloorAreaSqft, maxPercentage)
			if err != nil {
				return err
			}
			verdict, err := capacity.ClassifyFit(domain.SumArea(footprints), dims.FloorAreaSqft, maxPercentage)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), fitReport{
				Room:      *dims,
				Furniture: footprints,
				Admission: admission,
				Verdict:   verdict,
			})
		},
	}

	cmd.Flags().StringVar(&room, "room", "Living Room Furniture", "room type")
	cmd.Flags().Float64Var(&length, "length", 0, "room length in feet")
	cmd.Flags().Float64Var(&width, "width", 0, "room width in feet")
	cmd.Flags().Float64Var(&height, "height", 9, "room height in feet")
	cmd.Flags().Float64Var(&maxPercentage, "max", capacity.DefaultMaxPercentage, "occupancy ceiling in percent")
	cmd.Flags().StringArrayVar(&items, "item", nil, "furniture as Category/Subtype, repeatable")
	_ = cmd.MarkFlagRequired("length")
	_ = cmd.MarkFlagRequired("width")

	return cmd
}
