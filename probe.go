package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/llehouerou/clipline/internal/ui/render"
)

var errProbeFailed = errors.New("some files could not be probed")

func newProbeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <files...>",
		Short: "Print the media type and duration of files",
		Long: `Probes each file the way the media bin does and prints its type and
duration. Files that cannot be probed are reported on stderr.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			prober := newProber(cfg)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			failed := false
			for _, path := range args {
				info, err := prober.Probe(cmd.Context(), path)
				if err != nil {
					failed = true
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%.3fs\n", path, info.Type, render.Timecode(info.Duration), info.Duration)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if failed {
				return errProbeFailed
			}
			return nil
		},
	}
}
