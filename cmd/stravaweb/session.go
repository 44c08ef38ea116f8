package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var forgetSession bool

func init() {
	sessionCmd.Flags().BoolVar(&forgetSession, "forget", false, "drop the cached session instead of saving it")
	rootCmd.AddCommand(sessionCmd)
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show the logged-in session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		sess := web.Session()

		if forgetSession {
			if store == nil {
				return fmt.Errorf("no session cache configured, set redis_url")
			}
			if err := store.Forget(ctx, cacheUser(sess)); err != nil {
				return err
			}
			// Nothing left to save after this run.
			closeCache()
			fmt.Fprintln(cmd.OutOrStdout(), "forgot cached session")
			return nil
		}

		param, _, err := sess.CSRF(ctx)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "athlete:  %d\n", sess.AthleteID())
		if exp := sess.TokenExpiry(); !exp.IsZero() {
			fmt.Fprintf(w, "expires:  %s\n", exp.Format(timeLayout))
		}
		fmt.Fprintf(w, "csrf:     %s\n", param)
		fmt.Fprintf(w, "cached:   %t\n", store != nil)
		return nil
	},
}
