package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lildude/stravaweb/internal/model"
	"github.com/lildude/stravaweb/internal/webclient"
	"github.com/spf13/cobra"
)

var exportFlags struct {
	format, jsonFormat, dir string
	route                   bool
}

var deleteConfirmed bool

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportFlags.format, "format", "original", "original, gpx or tcx")
	f.StringVar(&exportFlags.jsonFormat, "json-format", "gpx", "format to fall back to when the original upload is JSON")
	f.StringVar(&exportFlags.dir, "dir", ".", "directory to write the file to")
	f.BoolVar(&exportFlags.route, "route", false, "the id is a route, not an activity")

	deleteCmd.Flags().BoolVar(&deleteConfirmed, "yes", false, "really delete the activity")

	rootCmd.AddCommand(exportCmd, deleteCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Download an activity or route file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		format, err := model.ParseDataFormat(exportFlags.format)
		if err != nil {
			return err
		}
		jsonFmt, err := model.ParseDataFormat(exportFlags.jsonFormat)
		if err != nil {
			return err
		}

		var f *webclient.ExportFile
		if exportFlags.route {
			f, err = web.GetRouteData(cmd.Context(), id, format)
		} else {
			f, err = web.GetActivityData(cmd.Context(), id, format, jsonFmt)
		}
		if err != nil {
			return err
		}
		defer f.Content.Close()

		path := filepath.Join(exportFlags.dir, filepath.Base(f.Filename))
		out, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		n, err := io.Copy(out, f.Content)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}

		log.WithField("bytes", n).WithField("path", path).Info("exported")
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an activity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if !deleteConfirmed {
			return fmt.Errorf("refusing to delete activity %d without --yes", id)
		}
		if err := web.DeleteActivity(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted activity %d\n", id)
		return nil
	},
}
