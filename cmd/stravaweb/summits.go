package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/lildude/stravaweb/internal/database"
	"github.com/lildude/stravaweb/internal/summits"
	"github.com/lildude/stravaweb/internal/webclient"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(summitsCmd)
}

var summitsCmd = &cobra.Command{
	Use:   "summits [year]",
	Short: "Total the elevation climbed running and riding in a year",
	Long:  "Defaults to the current year. When database_url is set the total is stored there too.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		year := time.Now().Year()
		if len(args) == 1 {
			y, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%q is not a year", args[0])
			}
			year = y
		}

		filter := webclient.ActivityFilter{
			After:  time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local),
			Before: time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.Local).Add(-time.Second),
		}
		athleteID := web.Session().AthleteID()
		s, err := summits.Tally(athleteID, year, web.GetActivities(ctx, filter))
		if err != nil {
			return err
		}

		if cfg.DatabaseURL != "" {
			db, err := database.Open(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			if err := summits.Save(ctx, db, s); err != nil {
				return err
			}
			log.WithField("athlete_id", athleteID).WithField("year", year).Info("stored summit")
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%d run:  %.0f m\n", year, s.Run)
		fmt.Fprintf(w, "%d ride: %.0f m\n", year, s.Ride)
		return nil
	},
}
