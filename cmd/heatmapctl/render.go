package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
	"github.com/couchcryptid/temperature-heatmap-service/internal/observability"
	"github.com/couchcryptid/temperature-heatmap-service/internal/render"
)

func newRenderCmd(root *rootOptions) *cobra.Command {
	var (
		level int
		mode  string
		out   string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a heatmap level as SVG",
		Long: `Render a heatmap level as SVG.

Level 1 supports modes max and min (default max). Level 2 also supports
both (default both).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lvl, err := parseLevelFlag(level)
			if err != nil {
				return err
			}
			m := lvl.DefaultMode()
			if mode != "" {
				if m, err = domain.ParseDisplayMode(mode); err != nil {
					return err
				}
			}
			layout, err := root.layout()
			if err != nil {
				return err
			}

			logger := root.logger(cmd.ErrOrStderr())
			snap, err := root.snapshot(cmd.Context(), logger)
			if err != nil {
				return err
			}

			r := render.NewSVGRenderer(layout, logger, observability.NewUnregisteredMetrics())
			svg, err := r.Render(cmd.Context(), snap, lvl, m)
			if err != nil {
				return err
			}

			w, closeFn, err := output(cmd, out)
			if err != nil {
				return err
			}
			if _, err := w.Write(svg); err != nil {
				closeFn() //nolint:errcheck // write error takes precedence
				return fmt.Errorf("write svg: %w", err)
			}
			return closeFn()
		},
	}
	cmd.Flags().IntVar(&level, "level", 1, "visualization level (1 or 2)")
	cmd.Flags().StringVar(&mode, "mode", "", "display mode: max, min or both")
	cmd.Flags().StringVarP(&out, "output", "o", "-", "output file")
	return cmd
}
