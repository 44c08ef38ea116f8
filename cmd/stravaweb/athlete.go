package main

import (
	"fmt"

	"github.com/lildude/stravaweb/internal/model"
	"github.com/spf13/cobra"
)

var athleteFromAPI bool

func init() {
	athleteCmd.Flags().BoolVar(&athleteFromAPI, "api", false, "start from the REST API athlete (needs api_token)")
	rootCmd.AddCommand(athleteCmd, challengeCmd)
}

type gearView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

type athleteView struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name"`
	City       string        `json:"city,omitempty"`
	Country    string        `json:"country,omitempty"`
	Location   *model.LatLng `json:"location,omitempty"`
	Bikes      []gearView    `json:"bikes"`
	Shoes      []gearView    `json:"shoes"`
	Challenges []int64       `json:"challenges"`
}

var athleteCmd = &cobra.Command{
	Use:   "athlete [id]",
	Short: "Show an athlete's profile, gear and completed challenges",
	Long:  "Without an id the logged-in athlete is shown. Other athletes only have the gear listed on their public profile.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var id int64
		if len(args) == 1 {
			var err error
			if id, err = parseID(args[0]); err != nil {
				return err
			}
		}

		var a *model.Athlete
		var err error
		if athleteFromAPI {
			if id != 0 {
				return fmt.Errorf("--api only works for the logged-in athlete")
			}
			a, err = web.AthleteFromAPI(ctx)
		} else {
			a, err = web.GetAthlete(ctx, id)
		}
		if err != nil {
			return err
		}

		v := athleteView{
			ID:       a.ID,
			Name:     a.Name(),
			City:     a.City,
			Country:  a.Country,
			Location: a.Location,
			Bikes:    []gearView{},
			Shoes:    []gearView{},
		}
		bikes, err := a.Bikes(ctx)
		if err != nil {
			return err
		}
		for _, b := range bikes {
			v.Bikes = append(v.Bikes, gearView{b.ID, b.Name, b.Distance})
		}
		shoes, err := a.Shoes(ctx)
		if err != nil {
			return err
		}
		for _, s := range shoes {
			v.Shoes = append(v.Shoes, gearView{s.ID, s.Name, s.Distance})
		}
		if v.Challenges, err = a.Challenges(ctx); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), v)
	},
}

var challengeCmd = &cobra.Command{
	Use:   "challenge <id>",
	Short: "Show a challenge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		ch, err := web.GetChallenge(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), ch)
	},
}
