package main

import (
	"fmt"

	"github.com/lildude/stravaweb/internal/webclient"
	"github.com/spf13/cobra"
)

var activityFlags struct {
	keywords, activityType, workoutType, gear string
	before, after                             string
	commute, private, indoor                  bool
	limit                                     int
}

func init() {
	f := activitiesCmd.Flags()
	f.StringVar(&activityFlags.keywords, "keywords", "", "only activities whose name matches")
	f.StringVar(&activityFlags.activityType, "type", "", "activity type, e.g. Ride or Run")
	f.StringVar(&activityFlags.workoutType, "workout-type", "", "workout type label for rides and runs, e.g. Race")
	f.StringVar(&activityFlags.gear, "gear", "", "gear id for rides and runs")
	f.StringVar(&activityFlags.before, "before", "", "only activities starting before this date")
	f.StringVar(&activityFlags.after, "after", "", "stop at activities starting before this date")
	f.BoolVar(&activityFlags.commute, "commute", false, "only commutes")
	f.BoolVar(&activityFlags.private, "private", false, "only private activities")
	f.BoolVar(&activityFlags.indoor, "indoor", false, "only trainer activities")
	f.IntVar(&activityFlags.limit, "limit", 0, "maximum number of activities, 0 for all")

	rootCmd.AddCommand(activitiesCmd, activityCmd)
}

// activityFilter builds the listing filter from the command line.
func activityFilter() (webclient.ActivityFilter, error) {
	f := webclient.ActivityFilter{
		Keywords:     activityFlags.keywords,
		ActivityType: activityFlags.activityType,
		GearID:       activityFlags.gear,
		Commute:      activityFlags.commute,
		Private:      activityFlags.private,
		Indoor:       activityFlags.indoor,
		Limit:        activityFlags.limit,
	}
	if activityFlags.workoutType != "" {
		wt := activityFlags.workoutType
		f.WorkoutType = &wt
	}
	var err error
	if f.Before, err = parseDate(activityFlags.before); err != nil {
		return f, fmt.Errorf("--before: %w", err)
	}
	if f.After, err = parseDate(activityFlags.after); err != nil {
		return f, fmt.Errorf("--after: %w", err)
	}
	return f, nil
}

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List activities from the training page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		filter, err := activityFilter()
		if err != nil {
			return err
		}

		tw := newTable(cmd.OutOrStdout())
		fmt.Fprintln(tw, "ID\tDATE\tTYPE\tDISTANCE\tNAME")
		for a, err := range web.GetActivities(cmd.Context(), filter) {
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", a.ID, a.StartDate.Format(dateLayout), a.Type, km(a.Distance), a.Name)
		}
		return tw.Flush()
	},
}

type activityView struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	WorkoutType *string  `json:"workout_type,omitempty"`
	StartDate   string   `json:"start_date"`
	Distance    float64  `json:"distance"`
	MovingTime  string   `json:"moving_time"`
	GearID      string   `json:"gear_id,omitempty"`
	Manual      bool     `json:"manual"`
	DeviceName  string   `json:"device_name,omitempty"`
	Photos      []string `json:"photos"`
}

var activityCmd = &cobra.Command{
	Use:   "activity <id>",
	Short: "Show one activity with the details only its page carries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		a, err := web.GetActivity(ctx, id)
		if err != nil {
			return err
		}
		v := activityView{
			ID:          a.ID,
			Name:        a.Name,
			Type:        a.Type,
			WorkoutType: a.WorkoutType,
			StartDate:   a.StartDate.Format(dateLayout),
			Distance:    a.Distance,
			MovingTime:  a.MovingTime.String(),
			GearID:      a.GearID,
			Photos:      []string{},
		}
		if v.Manual, err = a.Manual(ctx); err != nil {
			return err
		}
		if v.DeviceName, err = a.DeviceName(ctx); err != nil {
			return err
		}
		photos, err := a.Photos(ctx)
		if err != nil {
			return err
		}
		for _, p := range photos {
			v.Photos = append(v.Photos, p.UniqueID)
		}
		return printJSON(cmd.OutOrStdout(), v)
	},
}
