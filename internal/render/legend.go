package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/couchcryptid/temperature-heatmap-service/internal/config"
	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
	"github.com/couchcryptid/temperature-heatmap-service/internal/pipeline"
)

// colorLegend draws a stepped gradient strip for the mode's color scale with
// a right-hand axis of rounded tick labels.
func colorLegend(scales pipeline.Scales, mode domain.DisplayMode, layout config.Layout, plotWidth, top float64) Group {
	color := scales.Color(mode)
	axis := scales.Legend(mode, layout.LegendHeight)
	step := layout.LegendHeight / float64(layout.LegendSteps)

	g := Group{
		Class:     "legend",
		Transform: translate(plotWidth+layout.LegendOffset, top),
		Children: []Node{
			Text{Class: "legend-title", X: -20, Y: -10, Content: "Temperature"},
		},
	}
	for i := range layout.LegendSteps {
		y := float64(i) * step
		g.Children = append(g.Children, Rect{
			Class:  "legend-rect",
			Y:      y,
			Width:  layout.LegendWidth,
			Height: step,
			Fill:   color.Fill(axis.Invert(y), layout.NoDataColor),
		})
	}

	ticks := Group{
		Class:     "legend-axis",
		Transform: translate(layout.LegendWidth, 0),
		Attrs:     append([]Attr{{Name: "text-anchor", Value: "start"}}, axisAttrs...),
		Children: []Node{Path{
			Class:  "domain",
			D:      fmt.Sprintf("M%d,0H0V%sH%d", tickSize, num(layout.LegendHeight), tickSize),
			Stroke: "currentColor",
		}},
	}
	lo, hi := color.Domain()
	if !domain.IsMissing(lo) && !domain.IsMissing(hi) {
		for _, v := range axis.Ticks(layout.LegendTicks) {
			ticks.Children = append(ticks.Children, Group{
				Class:     "tick",
				Transform: translate(0, axis.Map(v)),
				Children: []Node{
					Line{X2: tickSize, Stroke: "currentColor"},
					Text{X: tickSize + tickPadding, Dy: "0.32em", Attrs: textFill, Content: roundLabel(v)},
				},
			})
		}
	}
	g.Children = append(g.Children, ticks)
	return g
}

// lineLegend labels the max and min series when both are drawn.
func lineLegend(layout config.Layout, plotWidth float64) Group {
	return Group{
		Class:     "line-legend",
		Transform: translate(plotWidth+layout.LegendOffset, layout.LegendHeight+40),
		Children: []Node{
			Line{Class: "max-temp-line", X2: 30, Stroke: layout.MaxLineColor},
			Text{X: 35, Y: 4, Content: "Max"},
			Line{Class: "min-temp-line", Y1: 20, X2: 30, Y2: 20, Stroke: layout.MinLineColor},
			Text{X: 35, Y: 24, Content: "Min"},
		},
	}
}

func roundLabel(v float64) string {
	r := math.Round(v)
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', 0, 64)
}
