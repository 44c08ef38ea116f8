package main

import (
	"fmt"
	"time"

	"github.com/lildude/stravaweb/internal/model"
	"github.com/spf13/cobra"
)

var bikeOn string

func init() {
	bikeCmd.Flags().StringVar(&bikeOn, "on", "", "only components installed on this date")
	rootCmd.AddCommand(bikeCmd, gearCmd)
}

var bikeCmd = &cobra.Command{
	Use:   "bike <id>",
	Short: "Show a bike with its components",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := web.GetBikeDetails(ctx, args[0])
		if err != nil {
			return err
		}

		components := d.Components
		if bikeOn != "" {
			on, err := parseDate(bikeOn)
			if err != nil {
				return fmt.Errorf("--on: %w", err)
			}
			b := &model.Bike{ID: args[0]}
			b.Merge(d, model.Overwrite)
			if components, err = b.ComponentsOnDate(ctx, on); err != nil {
				return err
			}
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s %s (%s, %.1f kg)\n", d.BrandName, d.ModelName, d.FrameType, d.Weight)
		tw := newTable(w)
		fmt.Fprintln(tw, "ID\tTYPE\tBRAND\tMODEL\tADDED\tREMOVED\tDISTANCE")
		for _, c := range components {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				c.ID, c.Type, c.BrandName, c.ModelName, day(c.Added), day(c.Removed), km(c.Distance))
		}
		return tw.Flush()
	},
}

func day(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(dateLayout)
}

var gearCmd = &cobra.Command{
	Use:   "gear",
	Short: "List the logged-in athlete's bikes and shoes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		gear, err := web.GetAllGear(cmd.Context())
		if err != nil {
			return err
		}
		tw := newTable(cmd.OutOrStdout())
		fmt.Fprintln(tw, "ID\tNAME\tDISTANCE\tPRIMARY")
		for _, g := range gear {
			switch g := g.(type) {
			case *model.Bike:
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", g.ID, g.Name, km(g.Distance), g.Primary)
			case *model.Shoe:
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", g.ID, g.Name, km(g.Distance), g.Primary)
			}
		}
		return tw.Flush()
	},
}
