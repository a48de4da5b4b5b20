package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
	"github.com/couchcryptid/temperature-heatmap-service/internal/render"
)

func newCellCmd(root *rootOptions) *cobra.Command {
	var (
		year  int
		month int
		mode  string
		out   string
	)
	cmd := &cobra.Command{
		Use:   "cell",
		Short: "Render the daily line chart of one month as SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := domain.ParseDisplayMode(mode)
			if err != nil {
				return err
			}
			layout, err := root.layout()
			if err != nil {
				return err
			}
			snap, err := root.snapshot(cmd.Context(), root.logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			agg, err := snap.Level2.Cell(year, time.Month(month))
			if err != nil {
				return err
			}

			w, closeFn, err := output(cmd, out)
			if err != nil {
				return err
			}
			if err := render.RenderDetail(w, agg, m, layout); err != nil {
				closeFn() //nolint:errcheck // render error takes precedence
				return err
			}
			return closeFn()
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "year of the month to chart")
	cmd.Flags().IntVar(&month, "month", 0, "month to chart (1-12)")
	cmd.Flags().StringVar(&mode, "mode", string(domain.ModeBoth), "series to draw: max, min or both")
	cmd.Flags().StringVarP(&out, "output", "o", "-", "output file")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}
